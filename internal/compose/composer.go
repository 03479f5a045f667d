package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryptostatus/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	Hashtags     string
	LinesPerPost int
	Offset       int
	ThreadLength int
	Location     *time.Location
}

// Composer turns formatted lines into the post bodies, the rendered image and
// the photo caption.
type Composer struct {
	opts     Options
	captions *Captioner
	tracer   trace.Tracer
	now      func() time.Time
	render   func(string) ([]byte, error)
}

func NewComposer(tracer trace.Tracer, opts Options, captions *Captioner) *Composer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LinesPerPost <= 0 {
		opts.LinesPerPost = 8
	}
	if opts.ThreadLength <= 0 {
		opts.ThreadLength = 1
	}
	return &Composer{
		opts:     opts,
		captions: captions,
		tracer:   tracer,
		now:      time.Now,
		render:   RenderImage,
	}
}

func (c *Composer) Compose(ctx context.Context, lines domain.Lines) (domain.PostBundle, error) {
	ctx, span := c.tracer.Start(ctx, "composer.compose")
	defer span.End()

	now := c.now().In(c.opts.Location)
	header := c.Header(now)

	var thread []string
	for i := 0; i < c.opts.ThreadLength; i++ {
		page := window(lines.Plain, c.opts.Offset+i*c.opts.LinesPerPost, c.opts.LinesPerPost)
		if i > 0 && len(page) == 0 {
			break
		}
		thread = append(thread, header+strings.Join(page, "\n"))
	}

	bundle := domain.PostBundle{
		PlainBody:     thread[0],
		DecoratedBody: header + strings.Join(window(lines.Decorated, c.opts.Offset, c.opts.LinesPerPost), "\n"),
		Thread:        thread,
	}

	img, err := c.render(bundle.DecoratedBody)
	if err != nil {
		return domain.PostBundle{}, fmt.Errorf("render image: %w", err)
	}
	bundle.Image = img

	if c.captions != nil {
		bundle.Caption = c.captions.Caption(ctx, now)
	}
	return bundle, nil
}

// Header is the hashtag preamble, the date/time stamp and a blank line.
func (c *Composer) Header(now time.Time) string {
	now = now.In(c.opts.Location)
	return fmt.Sprintf("%s\n#%s  %s\n\n", c.opts.Hashtags, now.Format("02Jan"), now.Format("03:04:05 PM"))
}

func window(lines []string, start, n int) []string {
	if start >= len(lines) || n <= 0 {
		return nil
	}
	end := min(start+n, len(lines))
	return lines[start:end]
}
