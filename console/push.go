package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/golang/glog"
)

// Push channel to the backend. The backend broadcasts named events with
// JSON payloads:
//
//     new_<entity>     full record
//     edit_<entity>    full record
//     remove_<entity>  at least {id}
//     <lookup>_update  empty payload, reload the lookup table
//
// Delivery is at-least-once and unordered. Connection lifecycle is
// logged only; there is no ack and no replay. Handlers for one
// connection run on the single read goroutine, in arrival order.

type PushFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type PushHandler func(data json.RawMessage)


type PushTransportSettings struct {
	WsHandshakeTimeout time.Duration
	ReconnectTimeout   time.Duration
	PingTimeout        time.Duration
	WriteTimeout       time.Duration
	ReadTimeout        time.Duration
}

func DefaultPushTransportSettings() *PushTransportSettings {
	return &PushTransportSettings{
		WsHandshakeTimeout: 2 * time.Second,
		ReconnectTimeout:   5 * time.Second,
		PingTimeout:        1 * time.Second,
		WriteTimeout:       5 * time.Second,
		ReadTimeout:        15 * time.Second,
	}
}


type PushTransport struct {
	ctx    context.Context
	cancel context.CancelFunc

	wsUrl      string
	sessionJwt string

	settings *PushTransportSettings

	mutex    sync.Mutex
	handlers map[string]*CallbackList[PushHandler]
}

func NewPushTransportWithDefaults(
	ctx context.Context,
	wsUrl string,
	sessionJwt string,
) *PushTransport {
	return NewPushTransport(ctx, wsUrl, sessionJwt, DefaultPushTransportSettings())
}

func NewPushTransport(
	ctx context.Context,
	wsUrl string,
	sessionJwt string,
	settings *PushTransportSettings,
) *PushTransport {
	cancelCtx, cancel := context.WithCancel(ctx)
	transport := &PushTransport{
		ctx:        cancelCtx,
		cancel:     cancel,
		wsUrl:      wsUrl,
		sessionJwt: sessionJwt,
		settings:   settings,
		handlers:   map[string]*CallbackList[PushHandler]{},
	}
	go transport.run()
	return transport
}

// Subscribe registers a handler for one named event. The returned
// function unsubscribes.
func (self *PushTransport) Subscribe(event string, handler PushHandler) func() {
	self.mutex.Lock()
	callbacks, ok := self.handlers[event]
	if !ok {
		callbacks = NewCallbackList[PushHandler]()
		self.handlers[event] = callbacks
	}
	self.mutex.Unlock()

	handlerId := callbacks.Add(handler)
	return func() {
		callbacks.Remove(handlerId)
	}
}

func (self *PushTransport) run() {
	defer self.cancel()

	for {
		dialer := &websocket.Dialer{
			HandshakeTimeout: self.settings.WsHandshakeTimeout,
		}
		header := http.Header{}
		if self.sessionJwt != "" {
			header.Add("Authorization", fmt.Sprintf("Bearer %s", self.sessionJwt))
		}

		ws, _, err := dialer.DialContext(self.ctx, self.wsUrl, header)
		if err != nil {
			glog.Infof("[p]connect error = %s\n", err)
			select {
			case <-self.ctx.Done():
				return
			case <-time.After(self.settings.ReconnectTimeout):
				continue
			}
		}
		glog.Infof("[p]connected %s\n", self.wsUrl)

		self.read(ws)

		select {
		case <-self.ctx.Done():
			return
		case <-time.After(self.settings.ReconnectTimeout):
		}
	}
}

func (self *PushTransport) read(ws *websocket.Conn) {
	defer ws.Close()

	handleCtx, handleCancel := context.WithCancel(self.ctx)
	defer handleCancel()

	go func() {
		defer handleCancel()

		for {
			select {
			case <-handleCtx.Done():
				return
			case <-time.After(self.settings.PingTimeout):
				ws.SetWriteDeadline(time.Now().Add(self.settings.WriteTimeout))
				if err := ws.WriteMessage(websocket.TextMessage, make([]byte, 0)); err != nil {
					// note that for websocket a deadline timeout cannot be recovered
					return
				}
			}
		}
	}()

	for {
		select {
		case <-handleCtx.Done():
			return
		default:
		}

		ws.SetReadDeadline(time.Now().Add(self.settings.ReadTimeout))
		messageType, message, err := ws.ReadMessage()
		if err != nil {
			glog.Infof("[pr]disconnected = %s\n", err)
			return
		}

		switch messageType {
		case websocket.TextMessage:
			if 0 == len(message) {
				// ping
				glog.V(2).Infof("[pr]ping\n")
				continue
			}

			var frame PushFrame
			if err := json.Unmarshal(message, &frame); err != nil {
				glog.Infof("[pr]bad frame = %s\n", err)
				continue
			}
			self.dispatch(&frame)
		default:
			glog.V(2).Infof("[pr]other=%d\n", messageType)
		}
	}
}

// handlers run synchronously so that notices for one entity type are
// applied strictly in delivery order
func (self *PushTransport) dispatch(frame *PushFrame) {
	self.mutex.Lock()
	callbacks, ok := self.handlers[frame.Event]
	self.mutex.Unlock()
	if !ok {
		glog.V(2).Infof("[pr]no handler %s\n", frame.Event)
		return
	}

	glog.V(1).Infof("[pr]%s\n", frame.Event)
	for _, handler := range callbacks.Get() {
		HandleError(func() {
			handler(frame.Data)
		})
	}
}

func (self *PushTransport) Close() {
	self.cancel()
}
