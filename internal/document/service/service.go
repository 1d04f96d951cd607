package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swetasamaddar-clear/document-finder/internal/document"
	"github.com/swetasamaddar-clear/document-finder/pkg/logger"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
)

// MaxSearchResults caps the number of records a search returns.
const MaxSearchResults = 50

var (
	ErrMissingField = errors.New("missing required field")
)

// Extractor derives a comma separated keyword string from free text.
type Extractor interface {
	Extract(ctx context.Context, text string) (string, error)
}

// RowStore is the tabular datastore. ReadRows returns the header row at index 0.
type RowStore interface {
	AppendRow(ctx context.Context, row []string) error
	ReadRows(ctx context.Context) ([][]string, error)
}

// SaveInput is the saveDocument payload. Content only feeds extraction and is never stored.
type SaveInput struct {
	URL     string
	Title   string
	Content string
}

// Service implements saveDocument and searchDocuments over the two collaborators.
type Service struct {
	extractor Extractor
	store     RowStore
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(extractor Extractor, store RowStore, opts ...Option) *Service {
	s := &Service{extractor: extractor, store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save extracts tags from the content and appends one record. Nothing is appended
// when extraction fails; the extractor's error is returned as is.
func (s *Service) Save(ctx context.Context, in SaveInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}

	tags, err := s.extractor.Extract(ctx, in.Content)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		logger.Warnf("keyword extraction failed for %s: %v", in.URL, err)
		return "", err
	}

	rec := document.NewRecord(s.now(), in.URL, in.Title, tags)
	if err := s.store.AppendRow(ctx, rec.Row()); err != nil {
		return "", fmt.Errorf("append record: %w", err)
	}
	logger.Debugf("saved %s with tags %q", in.URL, tags)
	return tags, nil
}

// Search scans every row after the header and returns up to MaxSearchResults
// records whose title or tags contain query, case-insensitively, in store order.
func (s *Service) Search(ctx context.Context, query string) ([]document.SearchResult, error) {
	rows, err := s.store.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	q := strings.ToLower(query)
	out := make([]document.SearchResult, 0)
	for i := 1; i < len(rows) && len(out) < MaxSearchResults; i++ {
		rec := document.RecordFromRow(rows[i])
		if contains(rec.Title, q) || contains(rec.Tags, q) {
			out = append(out, rec.Result())
		}
	}
	return out, nil
}

// An empty field never matches, even for an empty query.
func contains(field, lowerQuery string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

func (in SaveInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
