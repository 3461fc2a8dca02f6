package http

import (
	"net/http"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type GiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type giftHandlerImpl struct {
	giftService gift.GiftService
}

func NewGiftHandler(giftService gift.GiftService) GiftHandler {
	return &giftHandlerImpl{giftService: giftService}
}

// List implements GiftHandler
func (h *giftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.giftService.List(r.Context(), getBoolQueryParam(r, "active_only", false))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get implements GiftHandler
func (h *giftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.giftService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements GiftHandler
func (h *giftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req gift.CreateGiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.giftService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Gift created successfully", result)
}

// Update implements GiftHandler
func (h *giftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req gift.UpdateGiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.giftService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Gift updated successfully", result)
}

// Delete implements GiftHandler
func (h *giftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	deactivated, err := h.giftService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if deactivated {
		response.SuccessWithMessage(w, "Gift is used by shipments and was deactivated", map[string]bool{"deactivated": true})
		return
	}
	response.SuccessWithMessage(w, "Gift deleted successfully", map[string]bool{"deactivated": false})
}
