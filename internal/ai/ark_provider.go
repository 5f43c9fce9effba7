package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/plan"
)

// ArkProvider calls an Ark-hosted chat model (doubao family) through the
// OpenAI-compatible chat completions endpoint.
type ArkProvider struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	// Sport plan completions run several times longer than the rest.
	sportClient *http.Client
}

func NewArkProvider(cfg *config.Config) *ArkProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	sportTimeoutSeconds := cfg.AISportTimeoutSeconds
	if sportTimeoutSeconds <= 0 {
		sportTimeoutSeconds = 120
	}

	return &ArkProvider{
		apiKey:      cfg.ArkAPIKey,
		baseURL:     strings.TrimRight(cfg.ArkBaseURL, "/"),
		model:       cfg.ArkChatModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		sportClient: &http.Client{
			Timeout: time.Duration(sportTimeoutSeconds) * time.Second,
		},
	}
}

type chatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Messages    []chatMessageRequest `json:"messages"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *ArkProvider) GenerateDietPlan(ctx context.Context, profile plan.UserProfile) (*plan.DietPlan, error) {
	content, err := p.complete(ctx, p.httpClient, dietPlanPrompt(profile))
	if err != nil {
		return nil, err
	}

	repaired, err := ExtractAndRepair(content)
	if err != nil {
		return nil, err
	}

	var dietPlan plan.DietPlan
	if err := json.Unmarshal([]byte(repaired), &dietPlan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(dietPlan.Days) != plan.DaysPerWeek {
		return nil, fmt.Errorf("%w: diet plan has %d days, want %d", ErrBadFormat, len(dietPlan.Days), plan.DaysPerWeek)
	}
	for i, day := range dietPlan.Days {
		d := day.Diet
		if d.MaxCalorie <= 0 || d.Carbohydrate <= 0 || d.Protein <= 0 || d.Fat <= 0 {
			return nil, fmt.Errorf("%w: day %d is missing required diet values", ErrBadFormat, i)
		}
	}

	return &dietPlan, nil
}

func (p *ArkProvider) GenerateSportPlan(ctx context.Context, profile plan.UserProfile) (*plan.SportPlan, error) {
	content, err := p.complete(ctx, p.sportClient, sportPlanPrompt(profile))
	if err != nil {
		return nil, err
	}

	repaired, err := ExtractAndRepair(content)
	if err != nil {
		return nil, err
	}

	var sportPlan plan.SportPlan
	if err := json.Unmarshal([]byte(repaired), &sportPlan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(sportPlan.Days) != plan.DaysPerWeek {
		return nil, fmt.Errorf("%w: sport plan has %d days, want %d", ErrBadFormat, len(sportPlan.Days), plan.DaysPerWeek)
	}

	return &sportPlan, nil
}

func (p *ArkProvider) ExerciseDetail(ctx context.Context, exerciseName string) (*plan.ExerciseDetail, error) {
	content, err := p.complete(ctx, p.httpClient, exerciseDetailPrompt(exerciseName))
	if err != nil {
		return nil, err
	}

	repaired, err := ExtractAndRepair(content)
	if err != nil {
		return nil, err
	}

	var detail plan.ExerciseDetail
	if err := json.Unmarshal([]byte(repaired), &detail); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if detail.Name == "" {
		detail.Name = exerciseName
	}

	return &detail, nil
}

func (p *ArkProvider) RecognizeFoodText(ctx context.Context, description string) (*FoodEstimate, error) {
	content, err := p.complete(ctx, p.httpClient, foodTextPrompt(description))
	if err != nil {
		return nil, err
	}

	repaired, err := ExtractAndRepair(content)
	if err != nil {
		return nil, err
	}

	var estimate FoodEstimate
	if err := json.Unmarshal([]byte(repaired), &estimate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if estimate.FoodName == "" {
		estimate.FoodName = strings.TrimSpace(description)
	}

	return &estimate, nil
}

func (p *ArkProvider) complete(ctx context.Context, client *http.Client, prompt string) (string, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []chatMessageRequest{
			{Role: "system", Content: "You are a nutrition and fitness planning assistant. Always answer with a single JSON object and nothing else."},
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", NewStatusError(resp.StatusCode, string(responseBody))
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response contains no choices", ErrBadFormat)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func dietPlanPrompt(profile plan.UserProfile) string {
	return fmt.Sprintf(
		"Build a 7-day meal plan for weight loss. Profile: age %d, height %.0f cm, weight %.1f kg, target weight %.1f kg, body type %s, activity %s. "+
			"Respond with JSON: {\"plan\": [{\"day\": \"Monday\", \"diet\": {\"max_calorie\": 1800, \"carbohydrate_g\": 200, \"protein_g\": 90, \"fat_g\": 55, \"sugar_g\": 30, "+
			"\"breakfast\": \"...\", \"lunch\": \"...\", \"dinner\": \"...\"}}]} with exactly 7 entries, days Monday through Sunday.",
		profile.Age, profile.HeightCm, profile.WeightKg, profile.TargetKg, profile.BodyType, profile.ActivityType,
	)
}

func sportPlanPrompt(profile plan.UserProfile) string {
	return fmt.Sprintf(
		"Build a 7-day workout plan for weight loss. Profile: age %d, height %.0f cm, weight %.1f kg, target weight %.1f kg, body type %s, activity %s. "+
			"Respond with JSON: {\"plan\": [{\"day\": \"Monday\", \"exercises\": [{\"name\": \"...\", \"intensity\": \"low|medium|high\", "+
			"\"sets_reps\": \"3x12\", \"duration\": \"15 min\", \"calories\": 120}]}]} with exactly 7 entries, days Monday through Sunday. "+
			"Rest days get an empty exercises array.",
		profile.Age, profile.HeightCm, profile.WeightKg, profile.TargetKg, profile.BodyType, profile.ActivityType,
	)
}

func exerciseDetailPrompt(exerciseName string) string {
	return fmt.Sprintf(
		"Describe the exercise %q for a beginner. Respond with JSON: {\"action_name\": \"...\", \"description\": \"...\", \"muscles\": \"...\", "+
			"\"difficulty\": \"...\", \"equipment\": \"...\", \"common_mistakes\": \"...\", \"safety_tips\": \"...\"}.",
		exerciseName,
	)
}

func foodTextPrompt(description string) string {
	return fmt.Sprintf(
		"Estimate calories for this meal: %q. Respond with JSON: {\"food_name\": \"...\", \"calories\": 250, \"amount\": \"1 serving\"}. "+
			"calories is the total kcal as an integer.",
		description,
	)
}
