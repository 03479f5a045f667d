package social

import (
	"context"
	"fmt"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type StatusClient interface {
	PostStatus(ctx context.Context, text, inReplyTo string) (string, error)
	DeleteStatus(ctx context.Context, id string) error
}

// Publisher posts a thread of status updates, each replying to the previous.
type Publisher struct {
	client     StatusClient
	screenName string
	tracer     trace.Tracer
	log        zerolog.Logger
}

func NewPublisher(tracer trace.Tracer, client StatusClient, screenName string) *Publisher {
	return &Publisher{
		client:     client,
		screenName: screenName,
		tracer:     tracer,
		log:        log.With().Str("component", "publisher").Logger(),
	}
}

// Publish posts every page of thread in order and stops at the first failure.
// The result carries the root id only when the whole thread went out;
// otherwise it lists the ids that were posted and now have to be removed.
func (p *Publisher) Publish(ctx context.Context, thread []string) domain.PublishResult {
	ctx, span := p.tracer.Start(ctx, "publisher.publish")
	defer span.End()

	ids := make([]string, 0, len(thread))
	last := ""
	for i, text := range thread {
		if last != "" {
			text = "@" + p.screenName + " " + text
		}
		id, err := p.client.PostStatus(ctx, text, last)
		if err != nil {
			err = fmt.Errorf("%w: page %d: %w", domain.ErrPublish, i, err)
			p.log.Error().Err(err).Int("page", i).Int("pages", len(thread)).Msg("posting status failed")
			break
		}
		ids = append(ids, id)
		last = id
	}

	if len(thread) > 0 && len(ids) == len(thread) {
		p.log.Info().Str("id", ids[0]).Int("pages", len(ids)).Msg("status published")
		return domain.PublishResult{ID: ids[0]}
	}
	return domain.PublishResult{Orphaned: ids}
}

// Delete removes every listed status. Anything short of removing all of them
// is an ErrDelete.
func (p *Publisher) Delete(ctx context.Context, ids []string) error {
	ctx, span := p.tracer.Start(ctx, "publisher.delete")
	defer span.End()

	deleted := 0
	for _, id := range ids {
		if err := p.client.DeleteStatus(ctx, id); err != nil {
			p.log.Error().Err(err).Str("id", id).Msg("deleting status failed")
			continue
		}
		deleted++
	}

	if deleted != len(ids) {
		return fmt.Errorf("%w: deleted %d of %d statuses", domain.ErrDelete, deleted, len(ids))
	}
	return nil
}
