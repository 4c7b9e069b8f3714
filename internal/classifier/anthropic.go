package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pbaille/moodlog/internal/mood"
)

const (
	anthropicAPI   = "https://api.anthropic.com"
	anthropicModel = "claude-sonnet-4-20250514"
)

// emotionLabels is the vocabulary the LLM is asked to score.
var emotionLabels = []string{"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise"}

// Anthropic scores emotions by prompting a Claude model for JSON
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates an Anthropic classifier
func NewAnthropic(apiKey, model, baseURL string, client *http.Client) *Anthropic {
	if model == "" {
		model = anthropicModel
	}
	if baseURL == "" {
		baseURL = anthropicAPI
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Classify asks the model for a score per emotion label
func (a *Anthropic) Classify(ctx context.Context, text string) (mood.RawClassification, error) {
	resp, err := a.callAPI(ctx, buildPrompt(text))
	if err != nil {
		return nil, err
	}

	raw, err := parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return raw, nil
}

func buildPrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("Score the emotional tone of this journal entry. Return JSON only.\n\n")
	sb.WriteString("Entry:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")

	sb.WriteString("Labels:\n")
	for _, label := range emotionLabels {
		sb.WriteString("- ")
		sb.WriteString(label)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(`Return a JSON array with one object per label:
[
  {"label": "joy", "score": 0.82}
]

Rules:
- Use exactly the labels listed above, once each
- Scores are 0.0-1.0 and should sum to roughly 1.0
- Order does not matter

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Anthropic) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: 512,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", unavailable("http request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unavailable("read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", unavailable("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", &mood.FormatError{Reason: "unmarshal response: " + err.Error()}
	}

	if apiResp.Error != nil {
		return "", unavailable("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", &mood.FormatError{Reason: "empty response"}
	}

	return apiResp.Content[0].Text, nil
}

func parseResponse(resp string) (mood.RawClassification, error) {
	// models sometimes wrap JSON in markdown fences
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")

	return mood.DecodeRaw([]byte(resp))
}
