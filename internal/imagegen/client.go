package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ycfeng/slimhub/internal/config"
)

// Client generates an illustrative image for a dish name.
type Client interface {
	GenerateFoodImage(ctx context.Context, foodName string) (string, error)
}

// NewClient returns the Ark-backed client, or a mock in mock mode.
func NewClient(cfg *config.Config) Client {
	if strings.ToLower(strings.TrimSpace(cfg.AIMode)) == "ark" {
		return NewArkClient(cfg)
	}
	return NewMockClient()
}

// ArkClient calls the Ark images/generations endpoint.
type ArkClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewArkClient(cfg *config.Config) *ArkClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &ArkClient{
		apiKey:  cfg.ArkAPIKey,
		baseURL: strings.TrimRight(cfg.ArkBaseURL, "/"),
		model:   cfg.ArkImageModel,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateFoodImage returns a hosted URL for a generated dish photo.
func (c *ArkClient) GenerateFoodImage(ctx context.Context, foodName string) (string, error) {
	requestPayload := imageGenerationRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf("Appetizing photo of %s on a plate, natural light, top-down view", foodName),
		Size:   "512x512",
		N:      1,
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image generation failed with status %d", resp.StatusCode)
	}

	var parsed imageGenerationResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("image generation response contains no url")
	}

	return parsed.Data[0].URL, nil
}

// MockClient returns a stable placeholder URL without network calls.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) GenerateFoodImage(ctx context.Context, foodName string) (string, error) {
	_ = ctx
	return "https://placehold.co/512x512?text=" + url.QueryEscape(foodName), nil
}
