package console

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestApiAuthLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var args AuthLoginArgs
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &args)
		assert.Equal(t, "medic@example.com", args.UserAuth)
		assert.Equal(t, "hunter2", args.Password)

		json.NewEncoder(w).Encode(&AuthLoginResult{
			SessionJwt: "testjwt",
		})
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)

	result, err := api.AuthLoginSync(&AuthLoginArgs{
		UserAuth: "medic@example.com",
		Password: "hunter2",
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, "testjwt", result.SessionJwt)
}

func TestApiListEvents(t *testing.T) {
	a := &Event{Id: NewId(), Location: "mile 3"}
	b := &Event{Id: NewId(), Location: "mile 7"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/events/", r.URL.Path)
		assert.Equal(t, "Bearer testjwt", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(&EventsResult{
			Draw:            1,
			RecordsTotal:    2,
			RecordsFiltered: 2,
			Data:            []*Event{a, b},
		})
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)
	api.SetSessionJwt("testjwt")

	result, err := api.ListEventsSync()
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(result.Data))
	assert.Equal(t, a.Id, result.Data[0].Id)
	assert.Equal(t, "mile 7", result.Data[1].Location)
}

func TestApiCreateEvent(t *testing.T) {
	eventId := NewId()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/events", r.URL.Path)

		var fields Fields
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &fields)
		assert.Equal(t, "mile 3", fields["location"])
		// pruned fields stay off the wire
		_, ok := fields["notes"]
		assert.Equal(t, false, ok)

		json.NewEncoder(w).Encode(&EventResult{
			Data: []*Event{{Id: eventId, Location: "mile 3"}},
		})
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)

	fields := PruneEmpty(Fields{
		"location": "mile 3",
		"notes":    "",
	})

	callback, c := NewBlockingApiCallback[*EventResult]()
	api.CreateEvent(fields, callback)
	result := <-c
	assert.Equal(t, nil, result.Error)
	assert.Equal(t, 1, len(result.Result.Data))
	assert.Equal(t, eventId, result.Result.Data[0].Id)
}

func TestApiUpdateEvent(t *testing.T) {
	eventId := NewId()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, fmt.Sprintf("/api/events/%s", eventId), r.URL.Path)

		var fields Fields
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &fields)
		assert.Equal(t, 1, len(fields))
		assert.Equal(t, "mile 4", fields["location"])

		json.NewEncoder(w).Encode(&EventResult{
			Data: []*Event{{Id: eventId, Location: "mile 4"}},
		})
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)

	session := OpenEditFields(Fields{
		"location": "mile 3",
		"bib":      "117",
	})
	diff := session.Diff(Fields{
		"location": "mile 4",
		"bib":      "117",
	})

	callback, c := NewBlockingApiCallback[*EventResult]()
	api.UpdateEvent(eventId, diff, callback)
	result := <-c
	assert.Equal(t, nil, result.Error)
	assert.Equal(t, "mile 4", result.Result.Data[0].Location)
}

func TestApiDeleteEvent(t *testing.T) {
	eventId := NewId()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, fmt.Sprintf("/api/events/%s", eventId), r.URL.Path)

		json.NewEncoder(w).Encode(&EventResult{
			Data: []*Event{{Id: eventId}},
		})
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)

	callback, c := NewBlockingApiCallback[*EventResult]()
	api.DeleteEvent(eventId, callback)
	result := <-c
	assert.Equal(t, nil, result.Error)
}

func TestApiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no session", http.StatusUnauthorized)
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)

	_, err := api.ListEventsSync()
	assert.NotEqual(t, nil, err)
	assert.Equal(t, "no session", err.Error())
}

func TestApiListAgencies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/agencies/", r.URL.Path)

		json.NewEncoder(w).Encode(&AgenciesResult{
			Data: []*Agency{
				{Id: NewId(), Name: "sar", DisplayName: "Search and Rescue", Enabled: true},
			},
		})
	}))
	defer server.Close()

	api := NewConsoleApi(server.URL)

	result, err := api.ListAgenciesSync()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Data))
	assert.Equal(t, "sar", result.Data[0].Name)
}
