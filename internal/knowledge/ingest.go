package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/vendabot/vendabot/internal/schema"
)

const (
	ingestUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"
	maxBodyBytes    = 2 << 20
	chunkChars      = 1500
)

var (
	reIngestTags     = regexp.MustCompile(`<[^>]+>`)
	reIngestSpaces   = regexp.MustCompile(`[ \t]+`)
	reIngestNewlines = regexp.MustCompile(`\n{3,}`)
)

// Ingester turns a web page (pricing page, product sheet, FAQ) into knowledge
// items via readability extraction. Long articles are chunked so a single
// page does not dominate the grounding context.
type Ingester struct {
	store      *Store
	httpClient *http.Client
}

func NewIngester(store *Store) *Ingester {
	return &Ingester{
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IngestURL fetches rawURL, extracts the readable article and stores it under
// the given category. Returns the number of items created.
func (i *Ingester) IngestURL(ctx context.Context, workspaceID, rawURL, category string) (int, error) {
	if err := validateIngestURL(rawURL); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", ingestUserAgent)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rawURL, err)
	}

	parsed, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	title := article.Title
	if title == "" {
		title = rawURL
	}
	text := flattenHTML(article.Content)
	if text == "" {
		return 0, fmt.Errorf("no readable content at %s", rawURL)
	}

	chunks := chunkText(text, chunkChars)
	for n, chunk := range chunks {
		itemTitle := title
		if len(chunks) > 1 {
			itemTitle = fmt.Sprintf("%s (%d/%d)", title, n+1, len(chunks))
		}
		_, err := i.store.Add(ctx, workspaceID, schema.KnowledgeItem{
			Title:    itemTitle,
			Content:  chunk,
			Category: category,
			Metadata: map[string]any{"source": rawURL},
		})
		if err != nil {
			return n, err
		}
	}
	return len(chunks), nil
}

func validateIngestURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing domain in URL")
	}
	return nil
}

// flattenHTML strips tags and collapses whitespace.
func flattenHTML(htmlText string) string {
	text := reIngestTags.ReplaceAllString(htmlText, " ")
	text = reIngestSpaces.ReplaceAllString(text, " ")
	text = reIngestNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// chunkText splits on paragraph boundaries, packing paragraphs into chunks of
// at most maxChars. A single oversized paragraph becomes its own chunk.
func chunkText(text string, maxChars int) []string {
	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > maxChars {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
