package admin

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"flickr-embed/photo"
	"flickr-embed/shortcode"
	"flickr-embed/sitemap"
)

func (s *server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("photo"))
	wParam := r.URL.Query().Get("w")
	data := M{"Photo": id, "W": wParam}
	if id == "" {
		templateResponse(w, r, "index.tmpl.html", data)
		return
	}

	p, err := photo.New(r.Context(), s.renderer.Photos, id)
	if err != nil {
		data["Error"] = err.Error()
		templateResponse(w, r, "index.tmpl.html", data)
		return
	}

	displayWidth := s.renderer.DisplayWidth(shortcode.Attrs{"w": wParam}.Width())
	matched := p.ClosestSizeMatch(displayWidth)

	u := p.ImageSitemap(&sitemap.URL{Loc: "https://example.com/"})
	fragment, err := u.Fragment()
	if err != nil {
		data["Error"] = err.Error()
	}

	data["Loaded"] = p
	data["DisplayWidth"] = displayWidth
	data["Matched"] = matched
	data["Markup"] = template.HTML(p.Markup(matched, displayWidth))
	data["MarkupSource"] = p.Markup(matched, displayWidth)
	data["MediaRSS"] = p.MediaRSS()
	data["Sitemap"] = string(fragment)
	templateResponse(w, r, "index.tmpl.html", data)
}

func (s *server) renderHandler(w http.ResponseWriter, r *http.Request) {
	data := M{}
	if r.Method == http.MethodPost {
		content := r.FormValue("content")
		rendered := s.renderer.Content(r.Context(), content)
		data["Content"] = content
		data["Rendered"] = template.HTML(rendered)
		data["RenderedSource"] = rendered
		data["Directives"] = len(shortcode.Scan(content))
	}
	templateResponse(w, r, "render.tmpl.html", data)
}

func (s *server) mediaRSSHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("photo"))
	out := s.renderer.MediaRSS(r.Context(), `[flickr photo="`+id+`"]`)
	if id == "" || out == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *server) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := q.Get("loc")
	if loc == "" {
		http.Error(w, "loc is required", http.StatusBadRequest)
		return
	}

	set := sitemap.NewURLSet()
	u := set.Add(loc)
	for _, id := range q["photo"] {
		s.renderer.SitemapURL(r.Context(), `[flickr photo="`+strings.TrimSpace(id)+`"]`, u)
	}

	out, err := set.Marshal()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}
