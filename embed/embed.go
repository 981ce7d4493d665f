package embed

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"flickr-embed/photo"
	"flickr-embed/shortcode"
	"flickr-embed/sitemap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWidth       = 400
	MinWidth           = 20
	DefaultConcurrency = 4
)

// Renderer turns embed directives into output. Photos are loaded fresh for every call.
type Renderer struct {
	Photos photo.Service
	// ContentWidth is the widest a photo may be displayed; 0 means unbounded.
	ContentWidth int
	// Concurrency bounds the photos loaded at once for one document.
	Concurrency int
}

// DisplayWidth resolves a requested width against the content width.
func (r *Renderer) DisplayWidth(w int) int {
	if r.ContentWidth > 0 && (w < MinWidth || w > r.ContentWidth) {
		w = r.ContentWidth
	}
	if w < MinWidth {
		w = DefaultWidth
	}
	return w
}

// Shortcode renders one directive as HTML, or "" when the photo is unavailable.
func (r *Renderer) Shortcode(ctx context.Context, attrs shortcode.Attrs) string {
	id := attrs.Photo()
	if id == "" {
		return ""
	}
	p := r.load(ctx, id)
	if p == nil {
		return ""
	}
	return r.markup(p, attrs)
}

func (r *Renderer) markup(p *photo.Photo, attrs shortcode.Attrs) string {
	w := r.DisplayWidth(attrs.Width())
	matched := p.ClosestSizeMatch(w)
	if matched == 0 {
		return ""
	}
	return p.Markup(matched, w)
}

// Content expands every directive in text into HTML.
func (r *Renderer) Content(ctx context.Context, text string) string {
	directives := shortcode.Scan(text)
	photos := r.loadAll(ctx, directives)

	i := 0
	return shortcode.Replace(text, func(attrs shortcode.Attrs) string {
		p := photos[i]
		i++
		if p == nil {
			return ""
		}
		return r.markup(p, attrs)
	})
}

// MediaRSS describes every photo embedded in text for a feed item.
func (r *Renderer) MediaRSS(ctx context.Context, text string) string {
	var b strings.Builder
	for _, p := range r.loadAll(ctx, shortcode.Scan(text)) {
		if p != nil {
			b.WriteString(p.MediaRSS())
		}
	}
	return b.String()
}

// SitemapURL adds an image entry to u for every photo embedded in text.
func (r *Renderer) SitemapURL(ctx context.Context, text string, u *sitemap.URL) *sitemap.URL {
	if u == nil {
		return nil
	}
	for _, p := range r.loadAll(ctx, shortcode.Scan(text)) {
		if p != nil {
			u = p.ImageSitemap(u)
		}
	}
	return u
}

// MediaRSSNamespaceAttr declares the media prefix on a feed's root element.
func MediaRSSNamespaceAttr() string {
	return `xmlns:media="` + photo.MediaRSSNamespace + `"`
}

func (r *Renderer) load(ctx context.Context, id string) *photo.Photo {
	p, err := photo.New(ctx, r.Photos, id)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, photo.ErrNoData) {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "photo unavailable", "photo_id", id, "err", err)
		return nil
	}
	return p
}

// loadAll loads the photo for each directive; the result is indexed like directives and
// holds nil where a photo could not be loaded.
func (r *Renderer) loadAll(ctx context.Context, directives []shortcode.Attrs) []*photo.Photo {
	out := make([]*photo.Photo, len(directives))
	if len(directives) == 0 {
		return out
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, attrs := range directives {
		id := attrs.Photo()
		if id == "" {
			continue
		}
		i := i
		g.Go(func() error {
			out[i] = r.load(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
