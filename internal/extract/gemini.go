package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiClient extracts members through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	Stats  *LLMStats
}

func NewGeminiClient(ctx context.Context, apiKey, model string, stats *LLMStats) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: c, model: model, Stats: stats}, nil
}

func (g *GeminiClient) Model() string { return g.model }

// ExtractMembers sends one batch to Gemini, with any attachment inline.
func (g *GeminiClient) ExtractMembers(ctx context.Context, req Request) (members []RawMember, err error) {
	start := time.Now()
	defer func() { g.Stats.Record(time.Since(start), err) }()

	parts := []*genai.Part{{Text: BuildPrompt(req.Title, req.Batch)}}
	if req.Batch.HasAttachment() {
		a := req.Batch.Attachment
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: a.MIMEType, Data: a.Data}})
	}
	content := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	res, err := g.client.Models.GenerateContent(ctx, g.model, content, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from gemini")
	}
	return ParseMembers(text)
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && retryableStatus(apiErr.Code) {
		return &RetryableError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && retryableStatus(apiErrPtr.Code) {
		return &RetryableError{StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("gemini api: %w", err)
}

// Close is a no-op; the genai client holds no resources to release.
func (g *GeminiClient) Close() {}
