package service

import (
	"context"
	"errors"
	"fmt"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AssetFetcher interface {
	FetchAssets(ctx context.Context) ([]domain.AssetRecord, error)
}

type ConversionFetcher interface {
	FetchInputs(ctx context.Context) (domain.ConversionInputs, error)
}

type LineFormatter interface {
	Format(records []domain.AssetRecord, in domain.ConversionInputs) (domain.Lines, error)
}

type PostComposer interface {
	Compose(ctx context.Context, lines domain.Lines) (domain.PostBundle, error)
}

type ThreadPublisher interface {
	Publish(ctx context.Context, thread []string) domain.PublishResult
	Delete(ctx context.Context, ids []string) error
}

type Notifier interface {
	NotifyFailure(ctx context.Context) bool
}

type PhotoPublisher interface {
	PublishPhoto(ctx context.Context, image []byte, caption string) error
}

// StatusService runs one fetch, format, compose and publish cycle.
type StatusService struct {
	tracer      trace.Tracer
	assets      AssetFetcher
	conversions ConversionFetcher
	formatter   LineFormatter
	composer    PostComposer
	publisher   ThreadPublisher
	notifier    Notifier
	photos      PhotoPublisher
	dryRun      bool
	log         zerolog.Logger
}

func NewStatusService(
	tracer trace.Tracer,
	assets AssetFetcher,
	conversions ConversionFetcher,
	formatter LineFormatter,
	composer PostComposer,
	publisher ThreadPublisher,
	notifier Notifier,
	photos PhotoPublisher,
	dryRun bool,
) *StatusService {
	return &StatusService{
		tracer:      tracer,
		assets:      assets,
		conversions: conversions,
		formatter:   formatter,
		composer:    composer,
		publisher:   publisher,
		notifier:    notifier,
		photos:      photos,
		dryRun:      dryRun,
		log:         log.With().Str("component", "status-service").Logger(),
	}
}

// Run returns an error only for conditions that abort the run: fetch,
// format and compose failures, and an incomplete cleanup of partial posts.
// Publish and photo failures are handled here.
func (s *StatusService) Run(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "status-service.run")
	defer span.End()

	bundle, err := s.prepare(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if s.dryRun {
		s.log.Info().
			Str("body", bundle.PlainBody).
			Int("pages", len(bundle.Thread)).
			Str("caption", bundle.Caption).
			Msg("dry run, nothing published")
		return nil
	}

	if err := s.publishThread(ctx, bundle.Thread); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.photos.PublishPhoto(ctx, bundle.Image, bundle.Caption); err != nil {
		s.log.Error().Err(err).Msg("photo publish failed")
	}
	return nil
}

func (s *StatusService) prepare(ctx context.Context) (domain.PostBundle, error) {
	records, err := s.assets.FetchAssets(ctx)
	if err != nil {
		return domain.PostBundle{}, err
	}

	in, err := s.conversions.FetchInputs(ctx)
	if err != nil {
		// Left empty, the formatter reports the missing inputs.
		s.log.Warn().Err(err).Msg("conversion feed unavailable")
		in = domain.ConversionInputs{}
	}

	lines, err := s.formatter.Format(records, in)
	if err != nil {
		return domain.PostBundle{}, err
	}

	bundle, err := s.composer.Compose(ctx, lines)
	if err != nil {
		return domain.PostBundle{}, err
	}
	return bundle, nil
}

func (s *StatusService) publishThread(ctx context.Context, thread []string) error {
	ctx, span := s.tracer.Start(ctx, "status-service.publish-thread")
	defer span.End()

	res := s.publisher.Publish(ctx, thread)
	if res.OK() {
		span.SetAttributes(attribute.String("post.id", res.ID))
		s.log.Info().Str("id", res.ID).Msg("status published")
		return nil
	}

	span.SetAttributes(attribute.Int("post.orphaned", len(res.Orphaned)))
	s.log.Error().Strs("orphaned", res.Orphaned).Msg("status publish failed")

	if len(res.Orphaned) > 0 {
		if err := s.publisher.Delete(ctx, res.Orphaned); err != nil {
			if !errors.Is(err, domain.ErrDelete) {
				err = fmt.Errorf("%w: %w", domain.ErrDelete, err)
			}
			return err
		}
	}

	if !s.notifier.NotifyFailure(ctx) {
		s.log.Error().Err(domain.ErrMail).Msg("failure notification not delivered")
	}
	return nil
}
