package http

import (
	"net/http"
	"strconv"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/service"

	"github.com/gorilla/mux"
)

type RequestHandler struct {
	workflow service.RequestWorkflow
}

func NewRequestHandler(workflow service.RequestWorkflow) *RequestHandler {
	return &RequestHandler{workflow: workflow}
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input domain.RequestInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.workflow.Create(r.Context(), claims.UserID, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type requestListResponse struct {
	Count    int              `json:"count"`
	Requests []domain.Request `json:"requests"`
}

// List returns the pending requests inside the caller's admin scope.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.ScopeVisibleToAdmin)
}

// ListMine returns the pending requests addressed to the caller.
func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.ScopeAddressedToMe)
}

func (h *RequestHandler) list(w http.ResponseWriter, r *http.Request, scope domain.ListScope) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	requests, err := h.workflow.List(r.Context(), claims.UserID, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, requestListResponse{
		Count:    len(requests),
		Requests: requests,
	})
}

type actionRequest struct {
	Action domain.RequestAction `json:"action"`
}

type actionResponse struct {
	Request *domain.Request `json:"request"`
	User    *domain.User    `json:"user,omitempty"`
}

func (h *RequestHandler) Act(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body actionRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	req, user, err := h.workflow.Act(r.Context(), claims.UserID, requestID, body.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Request: req, User: user})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return int32(id), nil
}
