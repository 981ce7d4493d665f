package photo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"flickr-embed/flickr"
	"github.com/jaytaylor/html2text"
	"golang.org/x/net/html"
)

var ErrNoData = errors.New("unable to retrieve information from the Flickr API")

// Service is the subset of *flickr.Client a Photo is loaded through.
type Service interface {
	GetPhotoInfo(ctx context.Context, photoID string) (*flickr.PhotoInfo, error)
	GetPhotoSizes(ctx context.Context, photoID string) (*flickr.Sizes, error)
}

type Owner struct {
	ID       string
	Username string
	Name     string
}

// Credit is the display name, preferring the real name.
func (o *Owner) Credit() string {
	if o == nil {
		return ""
	}
	if o.Name != "" {
		return o.Name
	}
	return o.Username
}

type Size struct {
	Width  int
	Height int
	URL    string
}

type Photo struct {
	ID          string
	Title       string
	Description string
	Owner       *Owner
	// URL is the canonical photo page.
	URL string
	// Sizes has unique widths in ascending order.
	Sizes []Size
}

// New loads info then sizes for id. A photo with no usable sizes is not an error.
func New(ctx context.Context, svc Service, id string) (*Photo, error) {
	p := &Photo{ID: id}

	info, err := svc.GetPhotoInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get info for %s: %w", id, err)
	}
	if info == nil {
		return nil, ErrNoData
	}
	p.loadInfo(info)

	sizes, err := svc.GetPhotoSizes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sizes for %s: %w", id, err)
	}
	if sizes != nil {
		p.loadSizes(sizes.Size)
	}

	return p, nil
}

func (p *Photo) loadInfo(info *flickr.PhotoInfo) {
	if info.Owner != nil {
		p.Owner = &Owner{
			ID:       info.Owner.NSID,
			Username: info.Owner.Username,
			Name:     info.Owner.RealName,
		}
	}
	p.Title = strings.TrimSpace(info.Title.Content)
	p.Description = strings.TrimSpace(info.Description.Content)
	p.URL = webURL(info.PhotoPage())
}

func (p *Photo) loadSizes(sizes []flickr.Size) {
	byWidth := make(map[int]Size)
	for _, s := range sizes {
		if s.Media != "photo" {
			continue
		}
		w := abs(s.Width.Int())
		if w == 0 {
			continue
		}
		byWidth[w] = Size{Width: w, Height: abs(s.Height.Int()), URL: webURL(s.Source)}
	}

	p.Sizes = make([]Size, 0, len(byWidth))
	for _, s := range byWidth {
		p.Sizes = append(p.Sizes, s)
	}
	sort.Slice(p.Sizes, func(i, j int) bool {
		return p.Sizes[i].Width < p.Sizes[j].Width
	})
}

// Size looks up the size with exactly the given width.
func (p *Photo) Size(width int) (Size, bool) {
	i := sort.Search(len(p.Sizes), func(i int) bool { return p.Sizes[i].Width >= width })
	if i < len(p.Sizes) && p.Sizes[i].Width == width {
		return p.Sizes[i], true
	}
	return Size{}, false
}

func (p *Photo) Largest() (Size, bool) {
	if len(p.Sizes) == 0 {
		return Size{}, false
	}
	return p.Sizes[len(p.Sizes)-1], true
}

// ClosestSizeMatch picks the available width to display at target. Between the two
// widths straddling target the larger wins once target reaches half their difference.
// Returns the largest width when nothing is wider than target, or 0 without sizes.
func (p *Photo) ClosestSizeMatch(target int) int {
	lastWidth := 0
	for _, s := range p.Sizes {
		if s.Width > target && lastWidth != 0 {
			halfway := (s.Width - lastWidth) / 2
			if target >= halfway {
				return s.Width
			}
			return lastWidth
		}
		lastWidth = s.Width
	}
	return lastWidth
}

// PlainTitle is the title with tags stripped. Only text between tags is kept.
func (p *Photo) PlainTitle() string {
	return stripTags(p.Title)
}

func stripTags(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// DescriptionText renders the description HTML as readable plain text.
func (p *Photo) DescriptionText() string {
	if p.Description == "" {
		return ""
	}
	text, err := html2text.FromString(p.Description, html2text.Options{OmitLinks: true})
	if err != nil {
		return stripTags(p.Description)
	}
	return strings.TrimSpace(text)
}

// webURL drops anything that is not an absolute http(s) URL.
func webURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
