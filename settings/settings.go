// Package settings stores the Flickr API key and checks candidates against the API
// before accepting them.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	CredentialName = "flickr_api_key"
	// KeyLength is the length of keys Flickr issues. Only used as an input hint.
	KeyLength = 32
)

var (
	ErrEmptyKey        = errors.New("api key is empty")
	ErrNotAlphanumeric = errors.New("api key must be alphanumeric")
	ErrKeyRejected     = errors.New("flickr rejected the api key")
	ErrReadOnly        = errors.New("credential backend is read-only")
)

type Backend interface {
	// Load returns "" when nothing is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, key string) error
}

// Validator is satisfied by *flickr.Client.
type Validator interface {
	ValidateAPIKey(ctx context.Context, key string) bool
}

type Store struct {
	backend   Backend
	validator Validator
}

func NewStore(backend Backend, validator Validator) *Store {
	return &Store{backend: backend, validator: validator}
}

// Credential returns the stored key, "" when none is set.
func (s *Store) Credential(ctx context.Context) (string, error) {
	key, err := s.backend.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", CredentialName, err)
	}
	return key, nil
}

// SetCredential stores candidate if it looks like a key and the API accepts it. A
// rejected candidate leaves the stored key unchanged.
func (s *Store) SetCredential(ctx context.Context, candidate string) error {
	key := strings.TrimSpace(candidate)
	if key == "" {
		return ErrEmptyKey
	}
	if !isAlphanumeric(key) {
		return ErrNotAlphanumeric
	}
	if s.validator == nil || !s.validator.ValidateAPIKey(ctx, key) {
		slog.InfoContext(ctx, "api key rejected by flickr")
		return ErrKeyRejected
	}

	if err := s.backend.Save(ctx, key); err != nil {
		return fmt.Errorf("save %s: %w", CredentialName, err)
	}
	slog.InfoContext(ctx, "api key updated")
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
