package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"flickr-embed/flickr"
	"flickr-embed/settings"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

var check = flag.Bool("check", false, "Only validate the key, do not store it")
var show = flag.Bool("show", false, "Print the stored key")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [--check] <api key>\n       %s --show\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	err := godotenv.Load(".env", ".env.local")
	if err != nil {
		slog.Info("no dotenv", "err", err)
	}

	ctx := context.Background()
	fc := flickr.New(flickr.Config{Endpoint: os.Getenv("FLICKR_ENDPOINT")})

	backend, closeBackend, err := settings.OpenBackend(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()
	store := settings.NewStore(backend, fc)

	if *show {
		key, err := store.Credential(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(key)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	candidate := flag.Arg(0)

	if *check {
		if !fc.ValidateAPIKey(ctx, candidate) {
			log.Fatal("Invalid Flickr API key: Flickr rejected the key.")
		}
		fmt.Println("ok")
		return
	}

	err = store.SetCredential(ctx, candidate)
	switch {
	case errors.Is(err, settings.ErrKeyRejected):
		log.Fatal("Invalid Flickr API key: Flickr rejected the key.")
	case errors.Is(err, settings.ErrReadOnly):
		log.Fatal("no writable settings backend: set DATABASE_URL or REDIS_ADDR")
	case err != nil:
		log.Fatal(err)
	}
	fmt.Println("saved")
}
