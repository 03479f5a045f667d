package telemetry

import (
	"context"

	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/rs/zerolog/log"
)

// Reporter forwards run failures to an error tracking service.
type Reporter interface {
	Report(ctx context.Context, err error, meta map[string]string)
}

type Bugsnag struct {
	notify func(err error, rawData ...interface{}) error
}

// NewBugsnag configures the process-wide bugsnag client. Delivery is
// synchronous so reports are flushed before a one-shot run exits.
func NewBugsnag(apiKey, version, stage string) *Bugsnag {
	bugsnag.Configure(bugsnag.Configuration{
		APIKey:          apiKey,
		AppVersion:      version,
		ReleaseStage:    stage,
		ProjectPackages: []string{"main", "cryptostatus/*"},
		Synchronous:     true,
		Logger:          &log.Logger,
	})
	return &Bugsnag{notify: bugsnag.Notify}
}

func (b *Bugsnag) Report(ctx context.Context, err error, meta map[string]string) {
	if err == nil {
		return
	}
	tab := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		tab[k] = v
	}
	if nerr := b.notify(err, ctx, bugsnag.MetaData{"run": tab}); nerr != nil {
		log.Warn().Err(nerr).Msg("bugsnag notify failed")
	}
}

// Nop discards reports.
type Nop struct{}

func (Nop) Report(context.Context, error, map[string]string) {}
