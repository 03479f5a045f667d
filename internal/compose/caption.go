package compose

import (
	"context"
	"strings"
	"time"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog/log"
)

var (
	mentionTags = []string{"@criptodolar", "#criptodolar"}
	captionTags = []string{"#crypto", "#trading", "#forex", "#cryptocurrency", "#bitcoin", "#local"}
)

type FlavorSource interface {
	Articles(ctx context.Context, mode domain.NewsMode) ([]domain.Article, error)
}

// RandomSource is satisfied by *rand.Rand from math/rand/v2.
type RandomSource interface {
	IntN(n int) int
}

type Captioner struct {
	source FlavorSource
	rnd    RandomSource
	loc    *time.Location
}

func NewCaptioner(source FlavorSource, rnd RandomSource, loc *time.Location) *Captioner {
	if loc == nil {
		loc = time.UTC
	}
	return &Captioner{source: source, rnd: rnd, loc: loc}
}

// Caption builds the photo caption: one random news article (top headlines on
// even hours, keyword search on odd hours), a random mention tag and the
// hashtag block. A news failure leaves the article part empty.
func (c *Captioner) Caption(ctx context.Context, now time.Time) string {
	now = now.In(c.loc)

	mode := domain.NewsTopHeadlines
	if now.Hour()%2 != 0 {
		mode = domain.NewsEverything
	}

	var b strings.Builder
	articles, err := c.source.Articles(ctx, mode)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("mode", mode.String()).Msg("flavor text unavailable")
	case len(articles) == 0:
		log.Warn().Str("mode", mode.String()).Msg("flavor text source returned no articles")
	default:
		b.WriteString(flavorText(articles[c.rnd.IntN(len(articles))]))
	}

	b.WriteString(mentionTags[c.rnd.IntN(len(mentionTags))])
	b.WriteString("\n\n#")
	b.WriteString(now.Format("02Jan"))
	b.WriteString("\n")
	b.WriteString(strings.Join(captionTags, "\n"))
	b.WriteString("\n")
	return b.String()
}

func flavorText(a domain.Article) string {
	var b strings.Builder
	for _, part := range []string{a.Title, a.Description} {
		if part = strings.TrimRight(part, ". "); part != "" {
			b.WriteString(part)
			b.WriteString(".\n")
		}
	}
	if a.SourceName != "" {
		b.WriteString(a.SourceName)
		b.WriteString("\n")
	}
	return b.String()
}
