package http

import (
	"net/http"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	// Public endpoints
	GetInvitationByToken(w http.ResponseWriter, r *http.Request)
	AcceptInvitation(w http.ResponseWriter, r *http.Request)
	// Owner endpoints
	Create(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

// GetInvitationByToken implements InvitationHandler - public endpoint
func (h *invitationHandlerImpl) GetInvitationByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Token is required", nil)
		return
	}

	result, err := h.invitationService.GetByToken(r.Context(), token)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AcceptInvitation implements InvitationHandler - creates the invited account
func (h *invitationHandlerImpl) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req invitation.AcceptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Token = chi.URLParam(r, "token")

	result, err := h.invitationService.Accept(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invitation accepted, you can now log in", result)
}

// Create implements InvitationHandler
func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req invitation.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.invitationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invitation sent", result)
}

// ListPending implements InvitationHandler
func (h *invitationHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	results, err := h.invitationService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Revoke implements InvitationHandler
func (h *invitationHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.invitationService.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation revoked", nil)
}
