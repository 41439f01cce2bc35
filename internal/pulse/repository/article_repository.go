package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketpulse/pkg/logger"
	"marketpulse/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
)

// maxReadableChars caps the excerpt length fed into prompts.
const maxReadableChars = 2000

// articleRepository extracts the readable text of a news page.
type articleRepository struct {
	client *http.Client
	logger *logger.Logger
}

// NewArticleRepository creates a new readable-article fetcher.
func NewArticleRepository(log *logger.Logger) ArticleRepository {
	return &articleRepository{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: log,
	}
}

// FetchReadable downloads a page and strips it to plain article text,
// truncated for prompt use.
func (r *articleRepository) FetchReadable(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}
	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	content := strings.Join(strings.Fields(docHTML.Text()), " ")
	content = utils.CleanToValidUTF8(content)
	if len(content) > maxReadableChars {
		content = content[:maxReadableChars]
	}
	if content == "" {
		return "", fmt.Errorf("article body is empty after extraction")
	}
	return content, nil
}
