package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)


const defaultHttpTimeout = 60 * time.Second
const defaultHttpConnectTimeout = 5 * time.Second
const defaultHttpTlsTimeout = 5 * time.Second


func defaultClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultHttpConnectTimeout,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultHttpTlsTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultHttpTimeout,
	}
}


type apiCallback[R any] interface {
	Result(result R, err error)
}


// for internal use
type simpleApiCallback[R any] struct {
	callback func(result R, err error)
}

func NewApiCallback[R any](callback func(result R, err error)) apiCallback[R] {
	return &simpleApiCallback[R]{
		callback: callback,
	}
}

func NewNoopApiCallback[R any]() apiCallback[R] {
	return &simpleApiCallback[R]{
		callback: func(result R, err error) {},
	}
}

func (self *simpleApiCallback[R]) Result(result R, err error) {
	self.callback(result, err)
}


type ApiCallbackResult[R any] struct {
	Result R
	Error  error
}


func NewBlockingApiCallback[R any]() (apiCallback[R], chan ApiCallbackResult[R]) {
	c := make(chan ApiCallbackResult[R])
	apiCallback := NewApiCallback[R](func(result R, err error) {
		c <- ApiCallbackResult[R]{
			Result: result,
			Error:  err,
		}
	})
	return apiCallback, c
}


// Client for the backend's internal CRUD api. Calls are asynchronous:
// the initiating caller returns immediately and the continuation runs
// on the callback when the request completes. Request failures surface
// on the callback; there are no retries here.
type ConsoleApi struct {
	ctx    context.Context
	cancel context.CancelFunc

	apiUrl string

	sessionJwt string
}

func NewConsoleApi(apiUrl string) *ConsoleApi {
	return NewConsoleApiWithContext(context.Background(), apiUrl)
}

func NewConsoleApiWithContext(ctx context.Context, apiUrl string) *ConsoleApi {
	cancelCtx, cancel := context.WithCancel(ctx)

	return &ConsoleApi{
		ctx:    cancelCtx,
		cancel: cancel,
		apiUrl: apiUrl,
	}
}

// this gets attached to api calls that need it
func (self *ConsoleApi) SetSessionJwt(sessionJwt string) {
	self.sessionJwt = sessionJwt
}


type AuthLoginCallback apiCallback[*AuthLoginResult]

type AuthLoginArgs struct {
	UserAuth string `json:"user_auth"`
	Password string `json:"password"`
}

type AuthLoginResult struct {
	SessionJwt string                `json:"session_jwt,omitempty"`
	Error      *AuthLoginResultError `json:"error,omitempty"`
}

type AuthLoginResultError struct {
	Message string `json:"message"`
}

func (self *ConsoleApi) AuthLogin(authLogin *AuthLoginArgs, callback AuthLoginCallback) {
	go post(
		self.ctx,
		fmt.Sprintf("%s/auth/login", self.apiUrl),
		authLogin,
		self.sessionJwt,
		&AuthLoginResult{},
		callback,
	)
}

func (self *ConsoleApi) AuthLoginSync(authLogin *AuthLoginArgs) (*AuthLoginResult, error) {
	return post(
		self.ctx,
		fmt.Sprintf("%s/auth/login", self.apiUrl),
		authLogin,
		self.sessionJwt,
		&AuthLoginResult{},
		NewNoopApiCallback[*AuthLoginResult](),
	)
}


// list responses carry the record array under the `data` key, with the
// widget bookkeeping fields the backend includes for client-side
// processing

type ListEventsCallback apiCallback[*EventsResult]

type EventsResult struct {
	Draw            int      `json:"draw,omitempty"`
	RecordsTotal    int      `json:"recordsTotal,omitempty"`
	RecordsFiltered int      `json:"recordsFiltered,omitempty"`
	Data            []*Event `json:"data"`
}

// mutation responses echo the stored record under `data`
type EventResult struct {
	Data []*Event `json:"data"`
}

type CreateEventCallback apiCallback[*EventResult]
type UpdateEventCallback apiCallback[*EventResult]
type DeleteEventCallback apiCallback[*EventResult]

func (self *ConsoleApi) ListEvents(callback ListEventsCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/events/", self.apiUrl),
		self.sessionJwt,
		&EventsResult{},
		callback,
	)
}

func (self *ConsoleApi) ListEventsSync() (*EventsResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/events/", self.apiUrl),
		self.sessionJwt,
		&EventsResult{},
		NewNoopApiCallback[*EventsResult](),
	)
}

// fields must be pre-pruned with PruneEmpty
func (self *ConsoleApi) CreateEvent(fields Fields, callback CreateEventCallback) {
	go post(
		self.ctx,
		fmt.Sprintf("%s/api/events", self.apiUrl),
		fields,
		self.sessionJwt,
		&EventResult{},
		callback,
	)
}

// fields must be the EditSession diff, changed fields only
func (self *ConsoleApi) UpdateEvent(eventId Id, fields Fields, callback UpdateEventCallback) {
	go put(
		self.ctx,
		fmt.Sprintf("%s/api/events/%s", self.apiUrl, eventId),
		fields,
		self.sessionJwt,
		&EventResult{},
		callback,
	)
}

func (self *ConsoleApi) DeleteEvent(eventId Id, callback DeleteEventCallback) {
	go del(
		self.ctx,
		fmt.Sprintf("%s/api/events/%s", self.apiUrl, eventId),
		self.sessionJwt,
		&EventResult{},
		callback,
	)
}


type ListEncountersCallback apiCallback[*EncountersResult]

type EncountersResult struct {
	Draw            int          `json:"draw,omitempty"`
	RecordsTotal    int          `json:"recordsTotal,omitempty"`
	RecordsFiltered int          `json:"recordsFiltered,omitempty"`
	Data            []*Encounter `json:"data"`
}

type EncounterResult struct {
	Data []*Encounter `json:"data"`
}

type CreateEncounterCallback apiCallback[*EncounterResult]
type UpdateEncounterCallback apiCallback[*EncounterResult]
type DeleteEncounterCallback apiCallback[*EncounterResult]

func (self *ConsoleApi) ListEncounters(callback ListEncountersCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/encounters/", self.apiUrl),
		self.sessionJwt,
		&EncountersResult{},
		callback,
	)
}

func (self *ConsoleApi) ListEncountersSync() (*EncountersResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/encounters/", self.apiUrl),
		self.sessionJwt,
		&EncountersResult{},
		NewNoopApiCallback[*EncountersResult](),
	)
}

func (self *ConsoleApi) CreateEncounter(fields Fields, callback CreateEncounterCallback) {
	go post(
		self.ctx,
		fmt.Sprintf("%s/api/encounters", self.apiUrl),
		fields,
		self.sessionJwt,
		&EncounterResult{},
		callback,
	)
}

func (self *ConsoleApi) UpdateEncounter(encounterId Id, fields Fields, callback UpdateEncounterCallback) {
	go put(
		self.ctx,
		fmt.Sprintf("%s/api/encounters/%s", self.apiUrl, encounterId),
		fields,
		self.sessionJwt,
		&EncounterResult{},
		callback,
	)
}

func (self *ConsoleApi) DeleteEncounter(encounterId Id, callback DeleteEncounterCallback) {
	go del(
		self.ctx,
		fmt.Sprintf("%s/api/encounters/%s", self.apiUrl, encounterId),
		self.sessionJwt,
		&EncounterResult{},
		callback,
	)
}


type ListObservationsCallback apiCallback[*ObservationsResult]

type ObservationsResult struct {
	Draw            int            `json:"draw,omitempty"`
	RecordsTotal    int            `json:"recordsTotal,omitempty"`
	RecordsFiltered int            `json:"recordsFiltered,omitempty"`
	Data            []*Observation `json:"data"`
}

type ObservationResult struct {
	Data []*Observation `json:"data"`
}

type CreateObservationCallback apiCallback[*ObservationResult]
type UpdateObservationCallback apiCallback[*ObservationResult]
type DeleteObservationCallback apiCallback[*ObservationResult]

func (self *ConsoleApi) ListObservations(callback ListObservationsCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/observations/", self.apiUrl),
		self.sessionJwt,
		&ObservationsResult{},
		callback,
	)
}

func (self *ConsoleApi) ListObservationsSync() (*ObservationsResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/observations/", self.apiUrl),
		self.sessionJwt,
		&ObservationsResult{},
		NewNoopApiCallback[*ObservationsResult](),
	)
}

func (self *ConsoleApi) CreateObservation(fields Fields, callback CreateObservationCallback) {
	go post(
		self.ctx,
		fmt.Sprintf("%s/api/observations", self.apiUrl),
		fields,
		self.sessionJwt,
		&ObservationResult{},
		callback,
	)
}

func (self *ConsoleApi) UpdateObservation(observationId Id, fields Fields, callback UpdateObservationCallback) {
	go put(
		self.ctx,
		fmt.Sprintf("%s/api/observations/%s", self.apiUrl, observationId),
		fields,
		self.sessionJwt,
		&ObservationResult{},
		callback,
	)
}

func (self *ConsoleApi) DeleteObservation(observationId Id, callback DeleteObservationCallback) {
	go del(
		self.ctx,
		fmt.Sprintf("%s/api/observations/%s", self.apiUrl, observationId),
		self.sessionJwt,
		&ObservationResult{},
		callback,
	)
}


type ListParticipantsCallback apiCallback[*ParticipantsResult]

type ParticipantsResult struct {
	Draw            int            `json:"draw,omitempty"`
	RecordsTotal    int            `json:"recordsTotal,omitempty"`
	RecordsFiltered int            `json:"recordsFiltered,omitempty"`
	Data            []*Participant `json:"data"`
}

func (self *ConsoleApi) ListParticipants(callback ListParticipantsCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/participants/", self.apiUrl),
		self.sessionJwt,
		&ParticipantsResult{},
		callback,
	)
}

func (self *ConsoleApi) ListParticipantsSync() (*ParticipantsResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/participants/", self.apiUrl),
		self.sessionJwt,
		&ParticipantsResult{},
		NewNoopApiCallback[*ParticipantsResult](),
	)
}


// lookup tables are read-only from the console; edits happen in the
// admin surface and arrive as <entity>_update push events

type ListAgenciesCallback apiCallback[*AgenciesResult]

type AgenciesResult struct {
	Data []*Agency `json:"data"`
}

func (self *ConsoleApi) ListAgencies(callback ListAgenciesCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/agencies/", self.apiUrl),
		self.sessionJwt,
		&AgenciesResult{},
		callback,
	)
}

func (self *ConsoleApi) ListAgenciesSync() (*AgenciesResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/agencies/", self.apiUrl),
		self.sessionJwt,
		&AgenciesResult{},
		NewNoopApiCallback[*AgenciesResult](),
	)
}

type ListAssignmentsCallback apiCallback[*AssignmentsResult]

type AssignmentsResult struct {
	Data []*Assignment `json:"data"`
}

func (self *ConsoleApi) ListAssignments(callback ListAssignmentsCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/assignments/", self.apiUrl),
		self.sessionJwt,
		&AssignmentsResult{},
		callback,
	)
}

func (self *ConsoleApi) ListAssignmentsSync() (*AssignmentsResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/assignments/", self.apiUrl),
		self.sessionJwt,
		&AssignmentsResult{},
		NewNoopApiCallback[*AssignmentsResult](),
	)
}

type ListObservationCategoriesCallback apiCallback[*ObservationCategoriesResult]

type ObservationCategoriesResult struct {
	Data []*ObservationCategory `json:"data"`
}

func (self *ConsoleApi) ListObservationCategories(callback ListObservationCategoriesCallback) {
	go get(
		self.ctx,
		fmt.Sprintf("%s/api/observation_categories/", self.apiUrl),
		self.sessionJwt,
		&ObservationCategoriesResult{},
		callback,
	)
}

func (self *ConsoleApi) ListObservationCategoriesSync() (*ObservationCategoriesResult, error) {
	return get(
		self.ctx,
		fmt.Sprintf("%s/api/observation_categories/", self.apiUrl),
		self.sessionJwt,
		&ObservationCategoriesResult{},
		NewNoopApiCallback[*ObservationCategoriesResult](),
	)
}


func post[R any](ctx context.Context, url string, args any, sessionJwt string, result R, callback apiCallback[R]) (R, error) {
	return request(ctx, "POST", url, args, sessionJwt, result, callback)
}

func put[R any](ctx context.Context, url string, args any, sessionJwt string, result R, callback apiCallback[R]) (R, error) {
	return request(ctx, "PUT", url, args, sessionJwt, result, callback)
}

func get[R any](ctx context.Context, url string, sessionJwt string, result R, callback apiCallback[R]) (R, error) {
	return request(ctx, "GET", url, nil, sessionJwt, result, callback)
}

func del[R any](ctx context.Context, url string, sessionJwt string, result R, callback apiCallback[R]) (R, error) {
	return request(ctx, "DELETE", url, nil, sessionJwt, result, callback)
}

func request[R any](ctx context.Context, method string, url string, args any, sessionJwt string, result R, callback apiCallback[R]) (R, error) {
	var requestBodyBytes []byte
	if args == nil {
		requestBodyBytes = make([]byte, 0)
	} else {
		var err error
		requestBodyBytes, err = json.Marshal(args)
		if err != nil {
			var empty R
			callback.Result(empty, err)
			return empty, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(requestBodyBytes))
	if err != nil {
		var empty R
		callback.Result(empty, err)
		return empty, err
	}

	req.Header.Add("Content-Type", "application/json")

	if sessionJwt != "" {
		auth := fmt.Sprintf("Bearer %s", sessionJwt)
		req.Header.Add("Authorization", auth)
	}

	client := defaultClient()
	r, err := client.Do(req)
	if err != nil {
		var empty R
		callback.Result(empty, err)
		return empty, err
	}
	defer r.Body.Close()

	responseBodyBytes, err := io.ReadAll(r.Body)

	if http.StatusOK != r.StatusCode && http.StatusCreated != r.StatusCode {
		// the response body is the error message
		errorMessage := strings.TrimSpace(string(responseBodyBytes))
		err = errors.New(errorMessage)
		callback.Result(result, err)
		return result, err
	}

	if err != nil {
		callback.Result(result, err)
		return result, err
	}

	err = json.Unmarshal(responseBodyBytes, &result)
	if err != nil {
		var empty R
		callback.Result(empty, err)
		return empty, err
	}

	callback.Result(result, nil)
	return result, nil
}
