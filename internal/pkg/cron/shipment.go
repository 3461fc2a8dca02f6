package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
)

const (
	JobProcessDueShipments   = "process_due_shipments"
	JobGenerateYearShipments = "generate_year_shipments"
)

// ShipmentJobs keeps shipments moving without user interaction
type ShipmentJobs struct {
	shipmentService shipment.ShipmentService
	loc             *time.Location
	now             func() time.Time
}

func NewShipmentJobs(shipmentService shipment.ShipmentService, loc *time.Location) *ShipmentJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &ShipmentJobs{
		shipmentService: shipmentService,
		loc:             loc,
		now:             time.Now,
	}
}

func (j *ShipmentJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobProcessDueShipments, 1*time.Hour, j.ProcessDueShipments)
	scheduler.AddJob(JobGenerateYearShipments, 24*time.Hour, j.GenerateYearShipments)
}

// ProcessDueShipments marks every shipment whose trigger date is today or earlier
// (in the business timezone) as ready to ship
func (j *ShipmentJobs) ProcessDueShipments(ctx context.Context) error {
	today := j.now().In(j.loc)

	result, err := j.shipmentService.ProcessDueForAll(ctx, today)
	if err != nil {
		return err
	}
	if result.Processed > 0 {
		slog.Info("Cron: shipments ready to ship", "count", result.Processed, "day", result.Date)
	}
	return nil
}

// GenerateYearShipments creates the missing shipments of the current and next year.
// Early January birthdays trigger in the previous December.
func (j *ShipmentJobs) GenerateYearShipments(ctx context.Context) error {
	year := j.now().In(j.loc).Year()

	var errs []error
	for _, y := range []int{year, year + 1} {
		created, err := j.shipmentService.GenerateYearForAll(ctx, y)
		if err != nil {
			errs = append(errs, err)
		}
		if created > 0 {
			slog.Info("Cron: shipments generated", "year", y, "created", created)
		}
	}
	return errors.Join(errs...)
}
