package http

import (
	"net/http"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type profileResponse struct {
	User         *domain.User         `json:"user"`
	Organization *domain.Organization `json:"organization,omitempty"`
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, org, err := h.userSvc.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: user, Organization: org})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body updateProfileRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userSvc.UpdateProfile(r.Context(), claims.UserID, body.Name, body.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
