package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
)

// TitleRequest carries the context the title generator works from.
type TitleRequest struct {
	ActivityType    string   `json:"activity_type"`
	SharedInterests []string `json:"shared_interests,omitempty"`
	VenueName       string   `json:"venue_name"`
	InviteeName     string   `json:"invitee_name,omitempty"`
	InviteeSchool   string   `json:"invitee_school,omitempty"`
	City            string   `json:"city"`
}

// LLMClient covers the two language-model calls plan generation makes:
// a short natural-language title and an activity-type classification
// from shared interests. Callers degrade deterministically when either
// call errors.
type LLMClient interface {
	PlanTitle(ctx context.Context, req TitleRequest) (string, error)
	ClassifyActivity(ctx context.Context, interests []string) (string, error)
}

type llmClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

func NewLLMClient(log *logger.Logger, baseURL, apiKey, model string) (LLMClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing LLM API key")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &llmClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
		log:        log.With("client", "LLMClient"),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (lc *llmClient) complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	req := chatRequest{
		Model: lc.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	var resp chatResponse
	if err := postJSON(ctx, lc.httpClient, lc.baseURL+"/v1/chat/completions", lc.apiKey, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (lc *llmClient) PlanTitle(ctx context.Context, req TitleRequest) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Activity: %s. City: %s. Venue: %s.", req.ActivityType, req.City, req.VenueName)
	if req.InviteeName != "" {
		fmt.Fprintf(&sb, " With: %s.", req.InviteeName)
	}
	if req.InviteeSchool != "" {
		fmt.Fprintf(&sb, " Their school: %s.", req.InviteeSchool)
	}
	if len(req.SharedInterests) > 0 {
		fmt.Fprintf(&sb, " Shared interests: %s.", strings.Join(req.SharedInterests, ", "))
	}

	title, err := lc.complete(ctx,
		"You write short, warm titles for casual meetup invitations. Reply with the title only, no quotes, at most eight words.",
		sb.String(), 40, 0.8)
	if err != nil {
		return "", fmt.Errorf("plan title: %w", err)
	}
	return strings.Trim(title, `"`), nil
}

func (lc *llmClient) ClassifyActivity(ctx context.Context, interests []string) (string, error) {
	prompt := fmt.Sprintf(
		"Shared interests: %s. Pick the single best meetup activity type from: coffee, walk, casual_food, museum, art, sports, study. Reply with the type only.",
		strings.Join(interests, ", "))

	activity, err := lc.complete(ctx,
		"You map shared interests to one meetup activity type. Reply with one lowercase token.",
		prompt, 10, 0)
	if err != nil {
		return "", fmt.Errorf("classify activity: %w", err)
	}
	activity = strings.ToLower(strings.TrimSpace(activity))
	if activity == "" {
		return "", fmt.Errorf("classify activity: empty response")
	}
	return activity, nil
}
