package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// ShipmentSummary handles GET /reports/shipments
	ShipmentSummary(w http.ResponseWriter, r *http.Request)
	// ExportShipments handles GET /reports/shipments/export
	ExportShipments(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
	now           func() time.Time
}

func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &reportHandlerImpl{
		reportService: reportService,
		loc:           loc,
		now:           time.Now,
	}
}

func (h *reportHandlerImpl) parseRequest(r *http.Request) (report.ShipmentReportRequest, error) {
	req := report.ShipmentReportRequest{
		Year:       h.now().In(h.loc).Year(),
		Department: getStringQueryParam(r, "department"),
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return req, fmt.Errorf("invalid year parameter")
		}
		req.Year = year
	}
	if s := getStringQueryParam(r, "status"); s != nil {
		status := shipment.Status(*s)
		req.Status = &status
	}
	return req, nil
}

// ShipmentSummary implements ReportHandler
func (h *reportHandlerImpl) ShipmentSummary(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.reportService.ShipmentSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportShipments implements ReportHandler
func (h *reportHandlerImpl) ExportShipments(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	// buffered so a failure still produces a JSON error
	var buf bytes.Buffer
	if err := h.reportService.ExportShipmentsCSV(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="envios-%d.csv"`, req.Year))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("CSV export write failed", "error", err)
	}
}
