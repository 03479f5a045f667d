package social

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type PhotoClient interface {
	Login(ctx context.Context) error
	UploadPhoto(ctx context.Context, path, caption string) error
}

type FailureNotifier interface {
	NotifyFailure(ctx context.Context) bool
}

// PhotoPublisher uploads the rendered status image. The image only exists on
// disk for the duration of PublishPhoto.
type PhotoPublisher struct {
	client   PhotoClient
	notifier FailureNotifier
	tempDir  string
	tracer   trace.Tracer
	log      zerolog.Logger
}

func NewPhotoPublisher(tracer trace.Tracer, client PhotoClient, notifier FailureNotifier, tempDir string) *PhotoPublisher {
	return &PhotoPublisher{
		client:   client,
		notifier: notifier,
		tempDir:  tempDir,
		tracer:   tracer,
		log:      log.With().Str("component", "photo-publisher").Logger(),
	}
}

// PublishPhoto logs in and uploads image with caption. A login failure ends
// the step with ErrPhotoLogin; an upload failure notifies the operator and
// returns ErrPhotoPublish. The temporary file is removed on every path.
func (p *PhotoPublisher) PublishPhoto(ctx context.Context, image []byte, caption string) error {
	ctx, span := p.tracer.Start(ctx, "photo-publisher.publish-photo")
	defer span.End()

	path, err := p.writeTemp(image)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPhotoPublish, err)
	}
	defer p.removeTemp(path)

	if err := p.client.Login(ctx); err != nil {
		p.log.Error().Err(err).Msg("Something went wrong logging in to the photo service")
		return fmt.Errorf("%w: %w", domain.ErrPhotoLogin, err)
	}

	if err := p.client.UploadPhoto(ctx, path, caption); err != nil {
		p.log.Error().Err(err).Msg("Something went wrong uploading the photo")
		if !p.notifier.NotifyFailure(ctx) {
			p.log.Error().Msg("failure notification was not sent")
		}
		return fmt.Errorf("%w: %w", domain.ErrPhotoPublish, err)
	}

	p.log.Info().Int("bytes", len(image)).Msg("photo published")
	return nil
}

func (p *PhotoPublisher) writeTemp(image []byte) (string, error) {
	f, err := os.CreateTemp(p.tempDir, "cryptostatus-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(image); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp image: %w", err)
	}
	return path, nil
}

func (p *PhotoPublisher) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.log.Warn().Err(err).Str("path", path).Msg("could not remove temp image")
	}
}
