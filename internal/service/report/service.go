package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	loc        *time.Location
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *ReportServiceImpl) load(ctx context.Context, req report.ShipmentReportRequest) ([]shipment.ShipmentDetail, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.HasPermission(user.PermissionReportsView) {
		return nil, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.ShipmentRows(ctx, identity.OrganizationID, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return rows, nil
}

// counted reports whether a shipment's gift counts as spent
func counted(row shipment.ShipmentDetail) bool {
	return row.GiftPrice != nil && (row.Status == shipment.StatusShipped || row.Status == shipment.StatusDelivered)
}

// ShipmentSummary implements report.ReportService.
func (s *ReportServiceImpl) ShipmentSummary(ctx context.Context, req report.ShipmentReportRequest) (report.ShipmentReport, error) {
	rows, err := s.load(ctx, req)
	if err != nil {
		return report.ShipmentReport{}, err
	}

	byStatus := make(map[shipment.Status]int64)
	var byMonth [12]int64
	type departmentTotal struct {
		shipments int64
		cost      decimal.Decimal
	}
	byDepartment := make(map[string]*departmentTotal)
	total := decimal.Zero
	var onTime int64

	for _, row := range rows {
		byStatus[row.Status]++
		byMonth[row.BirthdayDate.Month()-1]++

		dept, ok := byDepartment[row.EmployeeDepartment]
		if !ok {
			dept = &departmentTotal{cost: decimal.Zero}
			byDepartment[row.EmployeeDepartment] = dept
		}
		dept.shipments++

		if counted(row) {
			total = total.Add(*row.GiftPrice)
			dept.cost = dept.cost.Add(*row.GiftPrice)
		}
		if row.Status == shipment.StatusDelivered && row.DeliveredAt != nil &&
			!calendar.Date(row.DeliveredAt.In(s.loc)).After(row.BirthdayDate) {
			onTime++
		}
	}

	resp := report.ShipmentReport{
		Year:            req.Year,
		TotalShipments:  int64(len(rows)),
		ByStatus:        make([]report.StatusCount, 0, len(shipment.AllStatuses())),
		ByMonth:         make([]report.MonthCount, 0, 12),
		ByDepartment:    make([]report.DepartmentCost, 0, len(byDepartment)),
		TotalGiftCost:   total.StringFixed(2),
		DeliveredOnTime: onTime,
		GeneratedAt:     s.now().In(s.loc).Format(time.RFC3339),
	}
	for _, status := range shipment.AllStatuses() {
		resp.ByStatus = append(resp.ByStatus, report.StatusCount{Status: status, Count: byStatus[status]})
	}
	for i, count := range byMonth {
		resp.ByMonth = append(resp.ByMonth, report.MonthCount{Month: i + 1, Count: count})
	}
	for name, dept := range byDepartment {
		resp.ByDepartment = append(resp.ByDepartment, report.DepartmentCost{
			Department: name,
			Shipments:  dept.shipments,
			TotalCost:  dept.cost.StringFixed(2),
		})
	}
	sort.Slice(resp.ByDepartment, func(i, j int) bool {
		return resp.ByDepartment[i].Department < resp.ByDepartment[j].Department
	})

	return resp, nil
}

// ExportShipmentsCSV implements report.ReportService.
func (s *ReportServiceImpl) ExportShipmentsCSV(ctx context.Context, req report.ShipmentReportRequest, w io.Writer) error {
	rows, err := s.load(ctx, req)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(report.CSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(s.record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ReportServiceImpl) record(row shipment.ShipmentDetail) []string {
	optional := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	timestamp := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.In(s.loc).Format(time.RFC3339)
	}
	price := ""
	if row.GiftPrice != nil {
		price = row.GiftPrice.StringFixed(2)
	}

	return []string{
		row.EmployeeName,
		row.EmployeeDepartment,
		row.EmployeeRole,
		row.EmployeeBirthDate.Format(dateLayout),
		row.BirthdayDate.Format(dateLayout),
		row.TriggerDate.Format(dateLayout),
		string(row.Status),
		optional(row.GiftName),
		price,
		timestamp(row.SentAt),
		timestamp(row.DeliveredAt),
		optional(row.Notes),
	}
}
