package job

import (
	"context"
	"time"

	"cryptostatus/internal/telemetry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Pipeline interface {
	Run(ctx context.Context) error
}

// HourlyJob runs the status pipeline when the local hour falls inside the
// posting window. Both window bounds are inclusive.
type HourlyJob struct {
	pipeline  Pipeline
	reporter  telemetry.Reporter
	loc       *time.Location
	startHour int
	endHour   int
	now       func() time.Time
	log       zerolog.Logger
}

func NewHourlyJob(pipeline Pipeline, reporter telemetry.Reporter, loc *time.Location, startHour, endHour int) *HourlyJob {
	return &HourlyJob{
		pipeline:  pipeline,
		reporter:  reporter,
		loc:       loc,
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
		log:       log.With().Str("component", "hourly-job").Logger(),
	}
}

func (j *HourlyJob) Name() string { return "status-post" }

func (j *HourlyJob) InWindow(now time.Time) bool {
	h := now.In(j.loc).Hour()
	return h >= j.startHour && h <= j.endHour
}

func (j *HourlyJob) Run() error {
	now := j.now()
	if !j.InWindow(now) {
		j.log.Info().
			Str("local_time", now.In(j.loc).Format(time.Kitchen)).
			Int("start_hour", j.startHour).
			Int("end_hour", j.endHour).
			Msg("outside posting window, skipping")
		return nil
	}

	ctx := context.Background()
	if err := j.pipeline.Run(ctx); err != nil {
		j.reporter.Report(ctx, err, map[string]string{
			"job":        j.Name(),
			"local_time": now.In(j.loc).Format(time.RFC3339),
		})
		return err
	}
	return nil
}
