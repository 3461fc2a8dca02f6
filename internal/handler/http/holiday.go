package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	TriggerDate(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
	loc            *time.Location
	now            func() time.Time
}

func NewHolidayHandler(holidayService holiday.HolidayService, loc *time.Location) HolidayHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &holidayHandlerImpl{
		holidayService: holidayService,
		loc:            loc,
		now:            time.Now,
	}
}

// List implements HolidayHandler. ?year= defaults to the current year.
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	year := getIntQueryParam(r, "year", h.now().In(h.loc).Year())

	result, err := h.holidayService.List(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements HolidayHandler
func (h *holidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.holidayService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holiday created successfully", result)
}

// Delete implements HolidayHandler
func (h *holidayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.holidayService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}

// TriggerDate implements HolidayHandler: GET /calendar/trigger-date?birthday=&lead=
func (h *holidayHandlerImpl) TriggerDate(w http.ResponseWriter, r *http.Request) {
	req := holiday.TriggerDateRequest{
		Birthday: r.URL.Query().Get("birthday"),
		Lead:     getIntQueryParam(r, "lead", 0),
	}

	result, err := h.holidayService.TriggerDate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
