package provider

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// GeminiGateway serves requests through the Gemini API with a JSON response schema.
type GeminiGateway struct {
	client *genai.Client
	model  string
}

func NewGeminiGateway(ctx context.Context, apiKey, model string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, errors.New("NewGeminiGateway: missing GEMINI_API_KEY")
	}
	if model == "" {
		return nil, errors.New("NewGeminiGateway: model is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGateway{client: client, model: model}, nil
}

func (g *GeminiGateway) Generate(ctx context.Context, req Request) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("GeminiGateway: client is nil")
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(req.Instructions, genai.RoleUser),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: req.Schema,
		MaxOutputTokens:    int32(maxTokens),
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}

	var lastErr error
	for attempt := 0; attempt < len(serverErrorWaitTimes); attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Input), cfg)
		if err == nil {
			return resp.Text(), nil
		}
		lastErr = err
		wait, retry := retryDelay(err, attempt, len(serverErrorWaitTimes))
		if !retry {
			return "", err
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", lastErr
}
