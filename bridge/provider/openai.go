package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const defaultMaxOutputTokens = 4000

// OpenAIGateway serves requests through the Responses API with strict json_schema output.
type OpenAIGateway struct {
	client *openai.Client
	model  string
	flex   bool
}

func NewOpenAIGateway(apiKey, model string, flex bool) (*OpenAIGateway, error) {
	if apiKey == "" {
		return nil, errors.New("NewOpenAIGateway: missing OPENAI_API_KEY")
	}
	if model == "" {
		return nil, errors.New("NewOpenAIGateway: model is empty")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIGateway{client: &client, model: model, flex: flex}, nil
}

func (g *OpenAIGateway) Generate(ctx context.Context, req Request) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("OpenAIGateway: client is nil")
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        req.Name,
			Schema:      req.Schema,
			Strict:      openai.Bool(true),
			Description: openai.String(req.Name + " JSON"),
			Type:        "json_schema",
		},
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	input := []responses.ResponseInputItemUnionParam{
		responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser),
	}
	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(int64(maxTokens)),
		Instructions:    openai.String(req.Instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if g.flex {
		params.ServiceTier = responses.ResponseNewParamsServiceTierFlex
	}

	resp, err := CallWithRetry(ctx, g.client, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

var (
	rateLimitWaitTimes   = []time.Duration{65 * time.Second, 100 * time.Second, 135 * time.Second}
	serverErrorWaitTimes = []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second}
)

// CallWithRetry retries rate-limit and server errors with fixed backoff. A cancelled ctx
// stops the wait immediately and is returned as the error.
func CallWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		wait, retry := retryDelay(err, attempt, maxRetries)
		if !retry {
			return nil, err
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("failed after %d attempts due to OpenAI API issues", maxRetries)
}

func retryDelay(err error, attempt, maxRetries int) (time.Duration, bool) {
	if attempt >= maxRetries-1 {
		return 0, false
	}
	switch {
	case isRateLimitError(err):
		return rateLimitWaitTimes[attempt], true
	case isServerError(err):
		return serverErrorWaitTimes[attempt], true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "resource_exhausted")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}
