package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/safartravel/safar/plugin/llm"
)

const (
	maxRecommendations     = 3
	destinationTemperature = 0.7
)

// Recommendation is one suggested Iranian city.
type Recommendation struct {
	CityFA      string   `json:"city_fa"`
	CityEN      string   `json:"city_en"`
	Reasoning   string   `json:"reasoning"`
	Attractions []string `json:"attractions"`
}

// Destinations is the payload returned in Result.Data by search_destinations.
type Destinations struct {
	Status          string           `json:"status"`
	Query           string           `json:"query"`
	Recommendations []Recommendation `json:"recommendations"`
}

type searchDestinationsTool struct {
	model llm.Model
}

// NewSearchDestinationsTool suggests destinations by asking model for a JSON
// answer.
func NewSearchDestinationsTool(model llm.Model) Tool {
	return &searchDestinationsTool{model: model}
}

func (t *searchDestinationsTool) Name() string { return "search_destinations" }
func (t *searchDestinationsTool) Description() string {
	return "Provides travel destination suggestions exclusively for Iranian domestic cities based on user preferences."
}
func (t *searchDestinationsTool) Parameters() map[string]any {
	return buildParameters(map[string]any{
		"user_preferences": stringProperty("A description of what the user is looking for (e.g., 'یک شهر گرم با آثار تاریخی زیاد', 'مکانی برای اسکی')."),
	}, "user_preferences")
}
func (t *searchDestinationsTool) Call(ctx context.Context, input string) (string, error) {
	return callJSON(ctx, t, input)
}

func (t *searchDestinationsTool) Invoke(ctx context.Context, args Args) (Result, error) {
	prefs := args.String("user_preferences")
	if prefs == "" {
		return Errorf("Please describe what kind of destination you are looking for."), nil
	}

	temperature := destinationTemperature
	reply, err := t.model.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: destinationPrompt(prefs)},
			{Role: llm.RoleUser, Content: prefs},
		},
		JSONMode:    true,
		Temperature: &temperature,
	})
	if err != nil {
		return generationFailed(err), nil
	}

	data, err := parseDestinations(reply.Content)
	if err != nil {
		return generationFailed(err), nil
	}
	if data.Query == "" {
		data.Query = prefs
	}
	return Result{
		Status:  StatusSuccess,
		Message: "Destination suggestions generated by LLM reasoning. Use this data to present recommendations to the user.",
		Data:    data,
	}, nil
}

func generationFailed(err error) Result {
	return Errorf("Failed to generate destination recommendations using LLM reasoning: %v", err)
}

// parseDestinations validates the model output. Extra recommendations past
// the third are dropped.
func parseDestinations(content string) (*Destinations, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty response")
	}
	var data Destinations
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	valid := data.Recommendations[:0]
	for _, r := range data.Recommendations {
		if strings.TrimSpace(r.CityEN) == "" && strings.TrimSpace(r.CityFA) == "" {
			continue
		}
		if r.Attractions == nil {
			r.Attractions = []string{}
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no recommendations in response")
	}
	if len(valid) > maxRecommendations {
		valid = valid[:maxRecommendations]
	}
	data.Recommendations = valid
	if data.Status == "" {
		data.Status = string(StatusSuccess)
	}
	return &data, nil
}

func destinationPrompt(prefs string) string {
	return fmt.Sprintf(`You are an expert Iranian travel agent. The user is looking for a domestic travel destination in Iran.

User preferences: %q

Based on these preferences, provide a detailed, context-aware recommendation for 1 to 3 Iranian cities.

Your output MUST be a JSON object with the following structure:
{
  "status": "success",
  "query": %q,
  "recommendations": [
    {
      "city_fa": "نام شهر",
      "city_en": "City Name",
      "reasoning": "A brief reason why this city matches the user's preferences (e.g., 'historical sites', 'beach access', 'winter sports').",
      "attractions": ["Key attraction 1 (in Farsi and English)", "Key attraction 2 (in Farsi and English)"]
    }
  ]
}

Ensure all cities and recommendations are realistic and accurate for Iran. Do not include any text outside the JSON object.`, prefs, prefs)
}
