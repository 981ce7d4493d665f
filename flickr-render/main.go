package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"flickr-embed/embed"
	"flickr-embed/flickr"
	"flickr-embed/publish"
	"flickr-embed/settings"
	"flickr-embed/sitemap"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

var photoID = flag.StringP("photo", "p", "", "Flickr photo ID to render")
var width = flag.IntP("width", "w", 0, "Requested display width")
var format = flag.StringP("format", "f", "html", "Output format: html, mrss or sitemap")
var contentPath = flag.StringP("content", "c", "", "Render every [flickr] directive in this file instead of one photo")
var userID = flag.StringP("user", "u", "", "Render the latest public photos of this Flickr user")
var limit = flag.IntP("limit", "n", 10, "Number of photos to render with --user")
var byTaken = flag.Bool("by-taken", false, "With --user, order by date taken instead of date posted")
var loc = flag.String("loc", "https://example.com/", "Page location for sitemap output")
var upload = flag.String("upload", "", "Upload the output to MinIO under this name (\"-\" for a random name)")

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if os.Getenv("APP_ENV") == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	err := godotenv.Load(".env", ".env.local")
	if err != nil {
		slog.Info("no dotenv", "err", err)
	}

	ctx := context.Background()

	backend, closeBackend, err := settings.OpenBackend(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()
	fc := flickr.New(flickr.Config{
		Credentials: settings.NewStore(backend, nil),
		Endpoint:    os.Getenv("FLICKR_ENDPOINT"),
		Retries:     uint64(envInt("FLICKR_RETRIES", 0)),
	})
	renderer := &embed.Renderer{
		Photos:       fc,
		ContentWidth: envInt("CONTENT_WIDTH", 0),
		Concurrency:  embed.DefaultConcurrency,
	}

	var content string
	if *contentPath != "" {
		b, err := os.ReadFile(*contentPath)
		if err != nil {
			log.Fatal(err)
		}
		content = string(b)
	} else if *photoID != "" {
		content = `[flickr photo="` + *photoID + `"`
		if *width > 0 {
			content += ` w="` + strconv.Itoa(*width) + `"`
		}
		content += `]`
	} else if *userID != "" {
		content, err = latestContent(ctx, fc, *userID)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Fatal("one of --photo, --content or --user is required")
	}

	var out string
	var ext, contentType string
	switch *format {
	case "html":
		out = renderer.Content(ctx, content)
		ext, contentType = ".html", publish.ContentTypeHTML
	case "mrss":
		out = renderer.MediaRSS(ctx, content)
		ext, contentType = ".xml", publish.ContentTypeXML
	case "sitemap":
		set := sitemap.NewURLSet()
		renderer.SitemapURL(ctx, content, set.Add(*loc))
		b, err := set.Marshal()
		if err != nil {
			log.Fatal(err)
		}
		out = string(b)
		ext, contentType = ".xml", publish.ContentTypeXML
	default:
		log.Fatalf("unknown format %q", *format)
	}

	if out == "" {
		log.Fatal("nothing rendered")
	}

	if *upload == "" {
		fmt.Println(out)
		return
	}

	mc, err := publish.Connect(
		mustGetEnv("MINIO_ENDPOINT"),
		mustGetEnv("MINIO_ACCESS_KEY"),
		mustGetEnv("MINIO_SECRET_KEY"),
	)
	if err != nil {
		log.Fatal(err)
	}
	name := *upload
	if name == "-" {
		name = ""
	}
	key, err := publish.New(mc, mustGetEnv("MINIO_BUCKET"), "flickr-embed").
		Put(ctx, name, ext, contentType, []byte(out))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(key)
}

// latestContent builds one directive per recent photo of user.
func latestContent(ctx context.Context, fc *flickr.Client, user string) (string, error) {
	sortBy := flickr.SortPosted
	if *byTaken {
		sortBy = flickr.SortTaken
	}
	photos, err := fc.GetLatestPhotosByUser(ctx, user, *limit, sortBy, []string{"date_upload", "date_taken"})
	if err != nil {
		return "", fmt.Errorf("latest photos of %s: %w", user, err)
	}
	if photos == nil {
		return "", fmt.Errorf("no photos for %s", user)
	}

	var b strings.Builder
	for _, p := range photos.Photo {
		var when time.Time
		if sortBy == flickr.SortTaken {
			when, err = p.Taken()
		} else {
			when, err = p.Posted()
		}
		if err != nil {
			slog.Debug("latest photo without date", "photo_id", p.ID, "err", err)
		}
		slog.Debug("latest photo", "photo_id", p.ID, "title", p.Title, "date", when)
		b.WriteString(`[flickr photo="` + p.ID + `"`)
		if *width > 0 {
			b.WriteString(` w="` + strconv.Itoa(*width) + `"`)
		}
		b.WriteString("]\n")
	}
	return b.String(), nil
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Fatalf("%s must be a non-negative integer", key)
	}
	return n
}

func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s not set", key)
	}
	return value
}
