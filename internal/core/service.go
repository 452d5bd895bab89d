// Package core holds the link service: validation, code generation and
// orchestration between the HTTP layer and the store.
package core

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/yourname/linkdash/internal/shortid"
	"github.com/yourname/linkdash/internal/store"
)

// Generated codes are 6 chars; callers may supply 1-8.
const generatedCodeLen = 6

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)

var (
	ErrMissingURL = errors.New("url is required")
	ErrInvalidURL = errors.New("invalid url format")
	ErrBadCode    = errors.New("code must be 1-8 characters and contain only letters and numbers")
	ErrEmptyCode  = errors.New("code is required")
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// normalizeURL accepts only absolute http/https URLs with a host.
func normalizeURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if parsed.Host == "" {
		return "", ErrInvalidURL
	}
	return parsed.String(), nil
}

// Create validates the destination and code, generating a code when the
// caller did not supply one, and inserts the link. Collisions of generated
// codes are not pre-checked; the insert reports them as store.ErrCodeTaken.
func (s *Service) Create(ctx context.Context, rawURL, customCode string) (store.Link, error) {
	if strings.TrimSpace(rawURL) == "" {
		return store.Link{}, ErrMissingURL
	}
	target, err := normalizeURL(rawURL)
	if err != nil {
		return store.Link{}, err
	}
	code := strings.TrimSpace(customCode)
	if code == "" {
		code = shortid.Generate(generatedCodeLen)
	}
	if !codePattern.MatchString(code) {
		return store.Link{}, ErrBadCode
	}
	return s.store.Create(ctx, code, target)
}

// Resolve records a click and returns the destination URL. The increment and
// the lookup are one atomic statement, so a redirect is only served once the
// click is durably recorded.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}
	return s.store.RecordClick(ctx, code)
}

func (s *Service) Get(ctx context.Context, code string) (store.Link, error) {
	if code == "" {
		return store.Link{}, ErrEmptyCode
	}
	return s.store.Get(ctx, code)
}

func (s *Service) List(ctx context.Context) ([]store.Link, error) {
	return s.store.List(ctx)
}

func (s *Service) Delete(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}
	return s.store.Delete(ctx, code)
}
