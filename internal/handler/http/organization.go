package http

import (
	"net/http"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
)

type OrganizationHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ListMembers(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	organizationService organization.OrganizationService
}

func NewOrganizationHandler(organizationService organization.OrganizationService) OrganizationHandler {
	return &organizationHandlerImpl{organizationService: organizationService}
}

// Get implements OrganizationHandler
func (h *organizationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.organizationService.GetMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements OrganizationHandler
func (h *organizationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req organization.UpdateOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.organizationService.UpdateMine(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Organization updated successfully", result)
}

// ListMembers implements OrganizationHandler
func (h *organizationHandlerImpl) ListMembers(w http.ResponseWriter, r *http.Request) {
	result, err := h.organizationService.ListMembers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
