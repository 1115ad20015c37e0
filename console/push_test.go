package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/gorilla/websocket"
)


type testPushServer struct {
	server *httptest.Server
	frames chan []byte
	auths  chan string
}

func newTestPushServer() *testPushServer {
	pushServer := &testPushServer{
		frames: make(chan []byte, 32),
		auths:  make(chan string, 8),
	}
	upgrader := websocket.Upgrader{}
	pushServer.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushServer.auths <- r.Header.Get("Authorization")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for frame := range pushServer.frames {
			if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}))
	return pushServer
}

func (self *testPushServer) wsUrl() string {
	return "ws" + strings.TrimPrefix(self.server.URL, "http")
}

func (self *testPushServer) send(event string, data any) {
	dataBytes, _ := json.Marshal(data)
	frameBytes, _ := json.Marshal(&PushFrame{
		Event: event,
		Data:  dataBytes,
	})
	self.frames <- frameBytes
}

func (self *testPushServer) close() {
	close(self.frames)
	self.server.Close()
}


func TestPushTransportDispatch(t *testing.T) {
	pushServer := newTestPushServer()
	defer pushServer.close()

	transport := NewPushTransportWithDefaults(context.Background(), pushServer.wsUrl(), "testjwt")
	defer transport.Close()

	auth := <-pushServer.auths
	assert.Equal(t, "Bearer testjwt", auth)

	received := make(chan string, 32)
	unsub := transport.Subscribe("new_event", func(data json.RawMessage) {
		var event Event
		json.Unmarshal(data, &event)
		received <- event.Location
	})

	// handlers run in delivery order
	pushServer.send("new_event", &Event{Id: NewId(), Location: "mile 3"})
	pushServer.send("new_event", &Event{Id: NewId(), Location: "mile 7"})

	assert.Equal(t, "mile 3", <-received)
	assert.Equal(t, "mile 7", <-received)

	// events with no handler are dropped
	pushServer.send("new_encounter", &Encounter{Id: NewId()})
	pushServer.send("new_event", &Event{Id: NewId(), Location: "finish"})
	assert.Equal(t, "finish", <-received)

	unsub()
	pushServer.send("new_event", &Event{Id: NewId(), Location: "after"})
	select {
	case location := <-received:
		t.Fatalf("received %s after unsubscribe", location)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPushTransportHandlerPanic(t *testing.T) {
	pushServer := newTestPushServer()
	defer pushServer.close()

	transport := NewPushTransportWithDefaults(context.Background(), pushServer.wsUrl(), "")
	defer transport.Close()

	received := make(chan string, 32)
	transport.Subscribe("edit_event", func(data json.RawMessage) {
		panic("bad handler")
	})
	transport.Subscribe("edit_event", func(data json.RawMessage) {
		var event Event
		json.Unmarshal(data, &event)
		received <- event.Location
	})

	// a panicking handler must not take down the read loop or
	// the handlers after it
	pushServer.send("edit_event", &Event{Id: NewId(), Location: "mile 3"})
	assert.Equal(t, "mile 3", <-received)

	pushServer.send("edit_event", &Event{Id: NewId(), Location: "mile 7"})
	assert.Equal(t, "mile 7", <-received)
}

func TestPushTransportBadFrame(t *testing.T) {
	pushServer := newTestPushServer()
	defer pushServer.close()

	transport := NewPushTransportWithDefaults(context.Background(), pushServer.wsUrl(), "")
	defer transport.Close()

	received := make(chan string, 32)
	transport.Subscribe("new_event", func(data json.RawMessage) {
		var event Event
		json.Unmarshal(data, &event)
		received <- event.Location
	})

	// an empty message is a ping and a garbage frame is dropped,
	// neither ends the connection
	pushServer.frames <- make([]byte, 0)
	pushServer.frames <- []byte("not json")
	pushServer.send("new_event", &Event{Id: NewId(), Location: "mile 3"})

	assert.Equal(t, "mile 3", <-received)
}
