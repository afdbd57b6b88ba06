// Package httpapi exposes the lottery REST API.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	app "github.com/kierros-labs/lottery-service/internal/app"
	"github.com/kierros-labs/lottery-service/internal/app/domain/user"
	"github.com/kierros-labs/lottery-service/internal/app/metrics"
	apperrors "github.com/kierros-labs/lottery-service/internal/errors"
	"github.com/kierros-labs/lottery-service/internal/middleware"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a router exposing the REST API. The auth middleware, when
// non-nil, guards the round lifecycle, draw recording and user routes; ticket
// submission and all reads stay public.
func NewHandler(application *app.Application, auth mux.MiddlewareFunc) http.Handler {
	h := &handler{app: application}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/rounds/current", h.currentRound).Methods(http.MethodGet)
	public.HandleFunc("/tickets", h.createTicket).Methods(http.MethodPost)
	public.HandleFunc("/tickets/{id}", h.getTicket).Methods(http.MethodGet)
	public.HandleFunc("/tickets/{id}/result", h.ticketResult).Methods(http.MethodGet)
	public.HandleFunc("/draws/{roundId}", h.getDraw).Methods(http.MethodGet)

	privileged := r.PathPrefix("/api").Subrouter()
	if auth != nil {
		privileged.Use(auth)
	}
	privileged.HandleFunc("/rounds", h.openRound).Methods(http.MethodPost)
	privileged.HandleFunc("/rounds/close", h.closeRound).Methods(http.MethodPost)
	privileged.HandleFunc("/draws", h.storeDraw).Methods(http.MethodPost)
	privileged.HandleFunc("/users", h.upsertUser).Methods(http.MethodPost)
	privileged.HandleFunc("/users/{id}", h.getUser).Methods(http.MethodGet)

	return r
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Rounds -------------------------------------------------------------------

func (h *handler) openRound(w http.ResponseWriter, r *http.Request) {
	opened, ok, err := h.app.Rounds.Open(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, opened)
}

func (h *handler) closeRound(w http.ResponseWriter, r *http.Request) {
	closed, ok, err := h.app.Rounds.Close(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

func (h *handler) currentRound(w http.ResponseWriter, r *http.Request) {
	current, ok, err := h.app.Rounds.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperrors.NotFound("round"))
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// Tickets ------------------------------------------------------------------

func (h *handler) createTicket(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RoundID    int64  `json:"round_id"`
		PersonalID string `json:"personal_id"`
		Numbers    []int  `json:"numbers"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	created, err := h.app.Tickets.Create(r.Context(), payload.RoundID, payload.PersonalID, payload.Numbers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) getTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.app.Tickets.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) ticketResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.app.Tickets.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Draws --------------------------------------------------------------------

func (h *handler) storeDraw(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Numbers []int `json:"numbers"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	created, err := h.app.Draws.Store(r.Context(), payload.Numbers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) getDraw(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(mux.Vars(r)["roundId"], 10, 64)
	if err != nil {
		writeError(w, apperrors.Validation("round id must be an integer"))
		return
	}

	d, ok, err := h.app.Draws.ForRound(r.Context(), roundID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperrors.NotFound("draw"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Users --------------------------------------------------------------------

func (h *handler) upsertUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	// A verified token fills in whatever the body omits.
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		if payload.ID == "" {
			payload.ID = claims.Subject
		}
		if payload.Email == "" {
			payload.Email = claims.Email
		}
		if payload.Name == "" {
			payload.Name = claims.Name
		}
	}

	saved, err := h.app.Users.Upsert(r.Context(), user.User{
		ID:    payload.ID,
		Email: payload.Email,
		Name:  payload.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.app.Users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Helpers ------------------------------------------------------------------

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	serviceErr := apperrors.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = apperrors.Internal("internal error", err)
	}

	body := map[string]interface{}{
		"error": serviceErr.Message,
		"code":  serviceErr.Code,
	}
	if len(serviceErr.Details) > 0 {
		body["details"] = serviceErr.Details
	}
	writeJSON(w, serviceErr.HTTPStatus, body)
}
