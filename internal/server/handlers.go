package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"activityapi/internal/logging"
	"activityapi/internal/shared"
)

const (
	ServiceName         = "activity-api"
	DefaultMaxBodyBytes = 2 << 20
)

var serviceEndpoints = []string{
	"GET /status",
	"GET /logs",
	"POST /logs (admin)",
	"POST /status (admin)",
	"DELETE /status/:id (admin)",
	"POST /status/reorder (admin)",
}

type API struct {
	Status       *StatusManager
	Logs         *LogManager
	MaxBodyBytes int64
}

func NewAPI(store Store, maxBodyBytes int64) *API {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &API{
		Status:       &StatusManager{Store: store},
		Logs:         &LogManager{Store: store},
		MaxBodyBytes: maxBodyBytes,
	}
}

// Options wires a full handler chain.
type Options struct {
	Store        Store
	AdminToken   string
	CORS         CORS
	MaxBodyBytes int64
	Logger       *logging.Logger
	Metrics      *Metrics
}

// NewHandler returns the complete HTTP surface: request ids, tracing, access
// logs and metrics, CORS, panic recovery, then the router.
func NewHandler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	api := NewAPI(opts.Store, opts.MaxBodyBytes)
	router := NewRouter(api, NewGuard(opts.AdminToken), opts.Metrics)

	var h http.Handler = router
	h = recoverPanics(opts.Logger, h)
	h = opts.CORS.Middleware(h)
	h = observe(opts.Logger, opts.Metrics, h)
	return h
}

// decodeBody reads at most maxBytes of JSON into v.
func decodeBody(r *http.Request, maxBytes int64, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return invalidInputCause("bad body", err)
	}
	if int64(len(body)) > maxBytes {
		return invalidInput("Request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return invalidInput("Missing body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return invalidInputCause("Invalid "+typeErr.Field, err)
		}
		return invalidInputCause("Invalid JSON", err)
	}
	return nil
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, shared.ServiceInfo{
		Service:   ServiceName,
		Status:    "ok",
		Endpoints: serviceEndpoints,
	})
	return nil
}

func (a *API) ListStatus(w http.ResponseWriter, r *http.Request) error {
	list, err := a.Status.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (a *API) UpsertStatus(w http.ResponseWriter, r *http.Request) error {
	var req shared.StatusUpsertRequest
	if err := decodeBody(r, a.MaxBodyBytes, &req); err != nil {
		return err
	}
	if err := a.Status.Upsert(r.Context(), req); err != nil {
		return err
	}
	writeSuccess(w)
	return nil
}

func (a *API) DeleteStatus(w http.ResponseWriter, r *http.Request) error {
	id := StatusIDFromPath(NormalizePath(r.URL.Path))
	if err := a.Status.Delete(r.Context(), id); err != nil {
		return err
	}
	writeSuccess(w)
	return nil
}

func (a *API) ReorderStatus(w http.ResponseWriter, r *http.Request) error {
	var req shared.ReorderRequest
	if err := decodeBody(r, a.MaxBodyBytes, &req); err != nil {
		var e *Error
		if errors.As(err, &e) && e.Kind == KindInvalidInput {
			return invalidInputCause("Invalid payload", err)
		}
		return err
	}
	if err := a.Status.Reorder(r.Context(), req); err != nil {
		return err
	}
	writeSuccess(w)
	return nil
}

func (a *API) ListLogs(w http.ResponseWriter, r *http.Request) error {
	limit := ResolveLimit(r.URL.Query().Get("limit"))
	entries, err := a.Logs.List(r.Context(), limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, entries)
	return nil
}

func (a *API) CreateLog(w http.ResponseWriter, r *http.Request) error {
	var req shared.CreateLogRequest
	if err := decodeBody(r, a.MaxBodyBytes, &req); err != nil {
		return err
	}
	if err := a.Logs.Create(r.Context(), req); err != nil {
		return err
	}
	writeSuccess(w)
	return nil
}
