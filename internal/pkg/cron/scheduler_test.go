package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var runs int32
	started := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	s := NewScheduler()
	s.AddJob("noop", 10*time.Millisecond, func(ctx context.Context) error { return errors.New("boom") })

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	s.Stop()
}

func TestScheduler_Run(t *testing.T) {
	s := NewScheduler()
	s.AddJob("once", time.Hour, func(ctx context.Context) error { return errors.New("ran") })

	assert.EqualError(t, s.Run(context.Background(), "once"), "ran")
	assert.EqualError(t, s.Run(context.Background(), "missing"), `unknown job "missing"`)
	s.Stop()
}

type fakeShipments struct {
	shipment.ShipmentService
	processedDay time.Time
	years        []int
	failYear     int
}

func (f *fakeShipments) ProcessDueForAll(ctx context.Context, day time.Time) (shipment.ProcessDueResponse, error) {
	f.processedDay = day
	return shipment.ProcessDueResponse{Date: day.Format("2006-01-02"), Processed: 2}, nil
}

func (f *fakeShipments) GenerateYearForAll(ctx context.Context, year int) (int, error) {
	f.years = append(f.years, year)
	if year == f.failYear {
		return 0, errors.New("generate failed")
	}
	return 1, nil
}

func TestShipmentJobs(t *testing.T) {
	svc := &fakeShipments{failYear: 2026}
	loc := time.FixedZone("BRT", -3*60*60)
	jobs := NewShipmentJobs(svc, loc)
	jobs.now = func() time.Time { return time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.ProcessDueShipments(context.Background()))
	assert.Equal(t, "2025-12-31", svc.processedDay.Format("2006-01-02"))

	err := jobs.GenerateYearShipments(context.Background())
	assert.EqualError(t, err, "generate failed")
	assert.Equal(t, []int{2025, 2026}, svc.years)

	s := NewScheduler()
	jobs.RegisterJobs(s)
	require.NoError(t, s.Run(context.Background(), JobProcessDueShipments))
}
