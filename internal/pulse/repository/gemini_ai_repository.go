package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// maxArticleExcerpts caps how many headline bodies get inlined into the
// decision prompt.
const maxArticleExcerpts = 3

// geminiAIRepository is an implementation of DecisionEngineRepository that
// uses the Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
	articleRepo    ArticleRepository
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client, articleRepo ArticleRepository) (DecisionEngineRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
		articleRepo:    articleRepo,
	}, nil
}

// GenerateDecision asks the model for a structured decision record from the
// current snapshot and headlines.
func (r *geminiAIRepository) GenerateDecision(ctx context.Context, snapshot dto.MarketSnapshot, headlines []dto.Headline) (*dto.DecisionRecord, error) {
	prompt := BuildDecisionPrompt(snapshot, headlines, r.fetchExcerpts(ctx, headlines))

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return r.parseDecisionResponse(geminiResp)
}

// GenerateBrief turns the assembled brief pack text into a short narrative.
func (r *geminiAIRepository) GenerateBrief(ctx context.Context, pack string) (string, error) {
	geminiResp, err := r.executeGeminiAIRequest(ctx, BuildBriefPrompt(pack))
	if err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}

	brief := strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text)
	if brief == "" {
		return "", fmt.Errorf("invalid response from Gemini API: empty brief")
	}
	return brief, nil
}

// fetchExcerpts pulls readable bodies for the leading headlines. Fetch
// failures just leave the prompt title-only for that link.
func (r *geminiAIRepository) fetchExcerpts(ctx context.Context, headlines []dto.Headline) map[string]string {
	excerpts := make(map[string]string)
	if r.articleRepo == nil {
		return excerpts
	}
	for _, h := range headlines {
		if len(excerpts) >= maxArticleExcerpts {
			break
		}
		text, err := r.articleRepo.FetchReadable(ctx, h.Link)
		if err != nil {
			r.logger.DebugContext(ctx, "Failed to fetch article body",
				logger.StringField("link", h.Link),
				logger.ErrorField(err),
			)
			continue
		}
		excerpts[h.Link] = text
	}
	return excerpts
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if int(geminiTokenResp.TotalTokens) > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

func (r *geminiAIRepository) parseDecisionResponse(resp *dto.GeminiAPIResponse) (*dto.DecisionRecord, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("invalid response from Gemini API: no content found")
	}

	rawJSON := resp.Candidates[0].Content.Parts[0].Text
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	var record dto.DecisionRecord
	if err := json.Unmarshal([]byte(rawJSON), &record); err != nil {
		r.logger.Error("Failed to unmarshal decision record from Gemini response", logger.ErrorField(err), logger.StringField("response", rawJSON))
		return nil, fmt.Errorf("failed to unmarshal decision record from Gemini response: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("incomplete decision record from Gemini response: %w", err)
	}

	return &record, nil
}
