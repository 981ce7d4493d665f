package photo

import (
	"html"
	"strconv"
	"strings"
)

const MediaRSSNamespace = "http://search.yahoo.com/mrss/"

type mediaAttr struct {
	key, value string
}

// MediaRSS renders the photo as MediaRSS elements for a feed item. Several sizes are
// wrapped in a media:group with the smallest as thumbnail and the largest marked as the
// default. Returns "" when no size has a URL.
func (p *Photo) MediaRSS() string {
	if len(p.Sizes) == 0 {
		return ""
	}

	var b strings.Builder
	if title := p.PlainTitle(); title != "" {
		b.WriteString(`<media:title type="plain">` + html.EscapeString(title) + "</media:title>\n")
	}
	if p.Description != "" {
		b.WriteString(`<media:description type="html">` + html.EscapeString(html.UnescapeString(p.Description)) + "</media:description>\n")
	}
	if name := p.Owner.Credit(); name != "" {
		b.WriteString(`<media:credit role="photographer">` + html.EscapeString(name) + "</media:credit>\n")
	}

	var content [][]mediaAttr
	var thumb Size
	for _, s := range p.Sizes {
		if s.URL == "" {
			continue
		}
		if len(content) == 0 {
			thumb = s
		}
		content = append(content, []mediaAttr{
			{"medium", "image"},
			{"type", "image/jpeg"},
			{"url", s.URL},
			{"width", strconv.Itoa(s.Width)},
			{"height", strconv.Itoa(s.Height)},
		})
	}
	if len(content) == 0 {
		return ""
	}

	grouped := len(content) > 1
	if grouped {
		b.WriteString(`<media:thumbnail url="` + html.EscapeString(thumb.URL) +
			`" width="` + strconv.Itoa(thumb.Width) +
			`" height="` + strconv.Itoa(thumb.Height) + "\" />\n")
		last := len(content) - 1
		content[last] = append(content[last], mediaAttr{"expression", "full"}, mediaAttr{"isDefault", "true"})
	}

	for _, attrs := range content {
		b.WriteString("<media:content")
		for _, a := range attrs {
			b.WriteString(" " + a.key + `="` + html.EscapeString(a.value) + `"`)
		}
		b.WriteString("/>\n")
	}

	if grouped {
		return "<media:group>\n" + b.String() + "</media:group>\n"
	}
	return b.String()
}
