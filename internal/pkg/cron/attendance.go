package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loopwork/insights-backend-go/internal/domain/attendance"
	"github.com/loopwork/insights-backend-go/internal/pkg/dateutil"
)

type AttendanceJobs struct {
	attendanceSvc     attendance.AttendanceService
	rebuildWindowDays int
	defaultZone       *time.Location
}

func NewAttendanceJobs(attendanceSvc attendance.AttendanceService, rebuildWindowDays int, defaultZone *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc:     attendanceSvc,
		rebuildWindowDays: rebuildWindowDays,
		defaultZone:       defaultZone,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("rebuild_attendance_window", 1*time.Hour, j.RebuildTrailingWindow)
}

// RebuildTrailingWindow re-reconciles badge events for the trailing few
// days so late-arriving polling data and webhook retries converge on the
// same attendance rows.
func (j *AttendanceJobs) RebuildTrailingWindow(ctx context.Context) error {
	// Only run at midnight local time (00:00-00:59)
	if time.Now().In(j.defaultZone).Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting attendance rebuild job", "window_days", j.rebuildWindowDays)

	today := dateutil.LocalDateKey(time.Now(), j.defaultZone)
	from, err := dateutil.AddDays(today, -(j.rebuildWindowDays - 1))
	if err != nil {
		return fmt.Errorf("failed to compute rebuild window: %w", err)
	}

	result, err := j.attendanceSvc.RebuildWindow(ctx, attendance.RebuildRequest{From: from, To: today})
	if err != nil {
		return fmt.Errorf("failed to rebuild attendance window: %w", err)
	}

	slog.Info("Cron: Attendance rebuild completed",
		"from", from,
		"to", today,
		"days_upserted", result.DaysUpserted,
		"events_seen", result.EventsSeen,
		"events_discarded", result.EventsDiscarded,
	)
	return nil
}
