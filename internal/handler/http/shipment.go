package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ShipmentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	MarkReady(w http.ResponseWriter, r *http.Request)
	MarkShipped(w http.ResponseWriter, r *http.Request)
	MarkDelivered(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	ProcessDue(w http.ResponseWriter, r *http.Request)
}

type shipmentHandlerImpl struct {
	shipmentService shipment.ShipmentService
	loc             *time.Location
	now             func() time.Time
}

func NewShipmentHandler(shipmentService shipment.ShipmentService, loc *time.Location) ShipmentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &shipmentHandlerImpl{
		shipmentService: shipmentService,
		loc:             loc,
		now:             time.Now,
	}
}

// List implements ShipmentHandler
func (h *shipmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := shipment.ShipmentFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		Search:     getStringQueryParam(r, "search"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}
	if r.URL.Query().Get("year") != "" {
		year := getIntQueryParam(r, "year", 0)
		filter.Year = &year
	}
	if s := getStringQueryParam(r, "status"); s != nil {
		status := shipment.Status(*s)
		filter.Status = &status
	}
	if s := getStringQueryParam(r, "due_before"); s != nil {
		due, ok := validator.IsValidDate(*s)
		if !ok {
			response.ValidationError(w, map[string]string{"due_before": "due_before must be in YYYY-MM-DD format"})
			return
		}
		filter.DueBefore = &due
	}

	result, err := h.shipmentService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements ShipmentHandler
func (h *shipmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.shipmentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements ShipmentHandler
func (h *shipmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req shipment.UpdateShipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.shipmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shipment updated successfully", result)
}

func (h *shipmentHandlerImpl) advance(w http.ResponseWriter, r *http.Request, next shipment.Status, message string) {
	result, err := h.shipmentService.Advance(r.Context(), chi.URLParam(r, "id"), next)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, result)
}

// MarkReady implements ShipmentHandler
func (h *shipmentHandlerImpl) MarkReady(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, shipment.StatusReadyToShip, "Shipment is ready to ship")
}

// MarkShipped implements ShipmentHandler
func (h *shipmentHandlerImpl) MarkShipped(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, shipment.StatusShipped, "Shipment marked as shipped")
}

// MarkDelivered implements ShipmentHandler
func (h *shipmentHandlerImpl) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, shipment.StatusDelivered, "Shipment marked as delivered")
}

// Cancel implements ShipmentHandler
func (h *shipmentHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req shipment.CancelShipmentRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.shipmentService.Cancel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shipment cancelled", result)
}

// Generate implements ShipmentHandler
func (h *shipmentHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req shipment.GenerateYearRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.Year == 0 {
		req.Year = h.now().In(h.loc).Year()
	}

	result, err := h.shipmentService.GenerateYear(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shipments generated", result)
}

// ProcessDue implements ShipmentHandler. The optional ?date= defaults to today
// in the business timezone.
func (h *shipmentHandlerImpl) ProcessDue(w http.ResponseWriter, r *http.Request) {
	day := h.now().In(h.loc)
	if s := getStringQueryParam(r, "date"); s != nil {
		parsed, ok := validator.IsValidDate(*s)
		if !ok {
			response.ValidationError(w, map[string]string{"date": "date must be in YYYY-MM-DD format"})
			return
		}
		day = parsed
	}

	result, err := h.shipmentService.ProcessDue(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Due shipments processed", result)
}
