package http

import (
	"net/http"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/service"
)

type OrgHandler struct {
	orgSvc service.OrganizationService
}

func NewOrgHandler(orgSvc service.OrganizationService) *OrgHandler {
	return &OrgHandler{orgSvc: orgSvc}
}

type orgRequest struct {
	Name     string         `json:"name"`
	Type     domain.OrgType `json:"type"`
	ParentID *int32         `json:"parent_id"`
}

func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body orgRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	org, err := h.orgSvc.CreateOrganization(r.Context(), claims.UserID, &domain.Organization{
		Name:     body.Name,
		Type:     body.Type,
		ParentID: body.ParentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

func (h *OrgHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	org, err := h.orgSvc.GetOrganization(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

type orgListResponse struct {
	Count         int                   `json:"count"`
	Organizations []domain.Organization `json:"organizations"`
}

func (h *OrgHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgSvc.ListOrganizations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	writeJSON(w, http.StatusOK, orgListResponse{Count: len(orgs), Organizations: orgs})
}

func (h *OrgHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	children, err := h.orgSvc.ListChildren(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if children == nil {
		children = []domain.Organization{}
	}
	writeJSON(w, http.StatusOK, orgListResponse{Count: len(children), Organizations: children})
}

func (h *OrgHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body orgRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	org, err := h.orgSvc.UpdateOrganization(r.Context(), claims.UserID, &domain.Organization{
		ID:       id,
		Name:     body.Name,
		Type:     body.Type,
		ParentID: body.ParentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

type joinCodeResponse struct {
	JoinCode string `json:"join_code"`
}

func (h *OrgHandler) GenerateJoinCode(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	code, err := h.orgSvc.GenerateJoinCode(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, joinCodeResponse{JoinCode: code})
}

func (h *OrgHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.orgSvc.DeleteOrganization(r.Context(), claims.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
