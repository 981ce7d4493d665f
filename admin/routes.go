package admin

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	flickrembed "flickr-embed/embed"
	"flickr-embed/settings"
	"github.com/gofrs/uuid"
)

//go:embed *.tmpl.html
var templateFS embed.FS

var routeTemplates map[string]*template.Template
var appEnv string
var navEntries []navEntry

type M map[string]interface{}

type navEntry struct {
	Path      string
	Title     string
	IsCurrent bool
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
}

type server struct {
	renderer    *flickrembed.Renderer
	credentials *settings.Store
}

func Mux(renderer *flickrembed.Renderer, credentials *settings.Store) http.Handler {
	appEnv = os.Getenv("APP_ENV")

	routeTemplates = make(map[string]*template.Template)
	entries, err := templateFS.ReadDir(".")
	if err != nil {
		log.Fatal(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "layout.tmpl.html" ||
			!strings.HasSuffix(name, ".tmpl.html") {
			continue
		}
		tmpl, err := prepareEmptyTemplate(name).ParseFS(templateFS, "layout.tmpl.html", name)
		if err != nil {
			log.Fatalf("Error parsing template %s with layout: %v", name, err)
		}
		routeTemplates[name] = tmpl
	}

	navEntries = []navEntry{
		{Path: "/", Title: "Preview"},
		{Path: "/render", Title: "Render"},
		{Path: "/settings", Title: "Settings"},
	}

	s := &server{renderer: renderer, credentials: credentials}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/render", s.renderHandler)
	mux.HandleFunc("/mediarss", s.mediaRSSHandler)
	mux.HandleFunc("/sitemap", s.sitemapHandler)
	mux.HandleFunc("/settings", s.settingsHandler)

	return requestIDMiddleware(timingMiddleware(mux))
}

func templateResponse(w http.ResponseWriter, r *http.Request, name string, data M) {
	templateResponseStatus(w, r, name, data, http.StatusOK)
}

func templateResponseStatus(w http.ResponseWriter, r *http.Request, name string, data M, status int) {
	if data == nil {
		data = make(M)
	}

	var err error
	var tmpl *template.Template

	if appEnv == "development" {
		slog.Debug("Loading templates directly (dev mode)")
		tmpl, err = prepareEmptyTemplate(name).ParseFiles("admin/layout.tmpl.html", "admin/"+name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		tmpl = routeTemplates[name]
		if tmpl == nil {
			http.Error(w, "Template not found", http.StatusInternalServerError)
			return
		}
	}

	var responseNavEntries []navEntry
	for _, entry := range navEntries {
		responseNavEntries = append(responseNavEntries, entry)
		if normalizeNavEntryPath(entry.Path) == normalizeNavEntryPath(r.URL.Path) {
			responseNavEntries[len(responseNavEntries)-1].IsCurrent = true
		}
	}
	data["LayoutNavEntries"] = responseNavEntries

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		slog.Error("execute template", "name", name, "err", err)
		if appEnv == "development" {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		} else {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func prepareEmptyTemplate(name string) *template.Template {
	tmpl := template.New(name)
	tmpl.Funcs(funcMap)
	return tmpl
}

func normalizeNavEntryPath(path string) string {
	for strings.HasPrefix(path, "/") {
		path = strings.TrimPrefix(path, "/")
	}
	for strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.NewV4()
		if err != nil {
			slog.Error("generate request id", "err", err)
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-Request-Id", id.String())
		slog.Info("request", "id", id.String(), "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// timingMiddleware appends the handling time to HTML responses as a comment.
func timingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		total := time.Since(start)

		if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
			return
		}

		type valueType struct {
			TotalText string `json:"total_text"`
		}
		value := valueType{
			TotalText: total.String(),
		}
		valueJSON, err := json.Marshal(value)
		if err != nil {
			slog.Error("Error marshalling timingMiddleware value", "err", err)
			return
		}
		_, _ = w.Write([]byte(fmt.Sprintf("<!--timingMiddleware:%s-->", valueJSON)))
	})
}
