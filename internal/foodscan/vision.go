package foodscan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ycfeng/slimhub/internal/ai"
	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/plan"
)

// VisionClient recognizes a dish on a photo.
type VisionClient interface {
	RecognizeFoodImage(ctx context.Context, imageData []byte, mimeType string) (*ai.FoodEstimate, error)
}

// NewVisionClient returns the Moonshot-backed client, or a mock in mock mode.
func NewVisionClient(cfg *config.Config) VisionClient {
	if strings.ToLower(strings.TrimSpace(cfg.AIMode)) == "ark" {
		return NewMoonshotClient(cfg)
	}
	return NewMockVisionClient()
}

// MoonshotClient calls a Moonshot-style vision chat completions endpoint.
type MoonshotClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewMoonshotClient(cfg *config.Config) *MoonshotClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &MoonshotClient{
		apiKey:  cfg.VisionAPIKey,
		baseURL: strings.TrimRight(cfg.VisionBaseURL, "/"),
		model:   cfg.VisionModel,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

type visionContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionImageURL struct {
	URL string `json:"url"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionRequest struct {
	Model       string          `json:"model"`
	Temperature float64         `json:"temperature"`
	Messages    []visionMessage `json:"messages"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *MoonshotClient) RecognizeFoodImage(ctx context.Context, imageData []byte, mimeType string) (*ai.FoodEstimate, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(imageData)

	requestPayload := visionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContentPart{
					{Type: "image_url", ImageURL: &visionImageURL{URL: dataURL}},
					{Type: "text", Text: "Identify the dish on this photo and estimate its calories. " +
						`Respond with JSON: {"food_name": "...", "calories": 250, "amount": "1 serving"}. ` +
						"calories is the total kcal as an integer."},
				},
			},
		},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ai.NewStatusError(resp.StatusCode, string(responseBody))
	}

	var parsed visionResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrBadFormat, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contains no choices", ai.ErrBadFormat)
	}

	repaired, err := ai.ExtractAndRepair(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	var estimate ai.FoodEstimate
	if err := json.Unmarshal([]byte(repaired), &estimate); err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrBadFormat, err)
	}

	return &estimate, nil
}

// MockVisionClient returns a deterministic recognition result.
type MockVisionClient struct{}

func NewMockVisionClient() *MockVisionClient {
	return &MockVisionClient{}
}

func (c *MockVisionClient) RecognizeFoodImage(ctx context.Context, imageData []byte, mimeType string) (*ai.FoodEstimate, error) {
	_ = ctx
	_ = mimeType

	return &ai.FoodEstimate{
		FoodName: "Vegetable salad",
		Calories: plan.Calories(120 + len(imageData)%200),
		Amount:   "1 bowl",
	}, nil
}
