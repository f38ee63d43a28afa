package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/isbn"
	"github.com/mrlokans/bookscan/internal/logging"
)

const userAgent = "BookScan/1.0 (https://github.com/mrlokans/bookscan)"

// ErrNotFound is returned when OpenLibrary has no edition for an ISBN.
var ErrNotFound = errors.New("not found in OpenLibrary")

// BookMetadata contains book information from OpenLibrary.
type BookMetadata struct {
	Title           string   `json:"title,omitempty"`
	Author          string   `json:"author,omitempty"`
	ISBN            string   `json:"isbn,omitempty"`
	CoverURL        string   `json:"cover_url,omitempty"`
	Publisher       string   `json:"publisher,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty"`
	Description     string   `json:"description,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	PageCount       int      `json:"page_count,omitempty"`
	OpenLibraryKey  string   `json:"open_library_key,omitempty"`
}

// ClientConfig configures an OpenLibraryClient.
type ClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RequestInterval time.Duration
}

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
	log         *zap.Logger
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}

// NewOpenLibraryClient creates a rate-limited OpenLibrary API client.
func NewOpenLibraryClient(cfg ClientConfig, log *zap.Logger) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: newRateLimiter(cfg.RequestInterval),
		log:         logging.OrNop(log).Named("openlibrary"),
	}
}

// SearchByISBN looks up an edition by ISBN. raw may be an ISBN-10, an
// ISBN-13 or an extended UPC, with or without separators. The ISBN-13 form
// is tried first, then the ISBN-10 form.
func (c *OpenLibraryClient) SearchByISBN(ctx context.Context, raw string) (*BookMetadata, error) {
	v := isbn.ParseBarcode(raw)
	if !v.Valid() {
		return nil, fmt.Errorf("search %q: %w", raw, isbn.ErrInvalidISBN)
	}

	for _, candidate := range lookupCandidates(v) {
		book, err := c.fetchEdition(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			c.log.Debug("isbn not found, trying next form", zap.String("isbn", candidate))
			continue
		}
		if err != nil {
			return nil, err
		}

		metadata := c.convertToMetadata(book, candidate)
		if len(book.Authors) > 0 && metadata.Author == "" {
			name, err := c.fetchAuthorName(ctx, book.Authors[0].Key)
			if err != nil {
				c.log.Warn("author lookup failed", zap.String("author", book.Authors[0].Key), zap.Error(err))
			} else {
				metadata.Author = name
			}
		}
		return metadata, nil
	}

	return nil, fmt.Errorf("isbn %s: %w", v.String(), ErrNotFound)
}

// lookupCandidates returns the ISBN-13 and, if one exists, ISBN-10 forms.
func lookupCandidates(v isbn.ISBN) []string {
	var out []string
	if s, err := v.To13(); err == nil {
		out = append(out, s)
	}
	if s, err := v.To10(); err == nil {
		out = append(out, s)
	}
	return out
}

func (c *OpenLibraryClient) fetchEdition(ctx context.Context, code string) (*openLibraryBook, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ISBN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("isbn %s: %w", code, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var book openLibraryBook
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &book, nil
}

func (c *OpenLibraryClient) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", fmt.Errorf("empty author key")
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s%s.json", c.baseURL, authorKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status: %d", resp.StatusCode)
	}

	var authorData struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&authorData); err != nil {
		return "", err
	}

	return authorData.Name, nil
}

func (c *OpenLibraryClient) convertToMetadata(book *openLibraryBook, code string) *BookMetadata {
	metadata := &BookMetadata{
		Title:          book.Title,
		ISBN:           code,
		OpenLibraryKey: book.Key,
		PageCount:      book.NumberOfPages,
		CoverURL:       fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", code),
	}

	if book.PublishDate != "" {
		metadata.PublicationYear = extractYear(book.PublishDate)
	}

	if len(book.Publishers) > 0 {
		metadata.Publisher = book.Publishers[0]
	}

	switch v := book.Description.(type) {
	case string:
		metadata.Description = v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			metadata.Description = val
		}
	}

	if len(book.Subjects) > 0 {
		metadata.Subjects = book.Subjects
	}

	return metadata
}

// extractYear tries to extract a 4-digit year from a date string.
func extractYear(dateStr string) int {
	dateStr = strings.TrimSpace(dateStr)
	if len(dateStr) < 4 {
		return 0
	}

	formats := []string{
		"2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		"January 2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t.Year()
		}
	}

	// Last resort: find 4 consecutive digits
	for i := 0; i <= len(dateStr)-4; i++ {
		if dateStr[i] >= '0' && dateStr[i] <= '9' {
			yearStr := dateStr[i : i+4]
			var year int
			if _, err := fmt.Sscanf(yearStr, "%d", &year); err == nil && year > 1000 && year < 3000 {
				return year
			}
		}
	}

	return 0
}

// OpenLibrary API response types (internal)

type openLibraryBook struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Authors       []authorRef `json:"authors"`
	Publishers    []string    `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Description   any         `json:"description"` // Can be string or {type, value}
	Subjects      []string    `json:"subjects"`
}

type authorRef struct {
	Key string `json:"key"`
}
