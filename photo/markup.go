package photo

import (
	"bytes"
	"html/template"
	"log/slog"
	"math"
)

var markupTemplate = template.Must(template.New("photo").Parse(
	`<div style="text-align:center">` +
		`{{if .Href}}<a href="{{.Href}}">{{end}}` +
		`<img alt="{{.Alt}}" src="{{.Src}}" width="{{.Width}}" height="{{.Height}}" />` +
		`{{if .Href}}</a>{{end}}` +
		`</div>`))

// Markup renders the size at matchedWidth scaled to displayWidth, linked to the photo page
// when there is one. Returns "" for a width the photo does not have.
func (p *Photo) Markup(matchedWidth, displayWidth int) string {
	size, ok := p.Size(matchedWidth)
	if !ok || size.URL == "" || displayWidth <= 0 {
		return ""
	}

	var buf bytes.Buffer
	err := markupTemplate.Execute(&buf, struct {
		Href   string
		Alt    string
		Src    string
		Width  int
		Height int
	}{
		Href:   p.URL,
		Alt:    p.Title,
		Src:    size.URL,
		Width:  displayWidth,
		Height: DisplayHeight(size, displayWidth),
	})
	if err != nil {
		slog.Error("render photo markup", "photo_id", p.ID, "err", err)
		return ""
	}
	return buf.String()
}

// DisplayHeight keeps the aspect ratio of s at displayWidth.
func DisplayHeight(s Size, displayWidth int) int {
	if s.Width == 0 {
		return 0
	}
	return int(math.Round(float64(displayWidth) * float64(s.Height) / float64(s.Width)))
}
