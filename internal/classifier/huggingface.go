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
	huggingFaceAPI   = "https://api-inference.huggingface.co"
	huggingFaceModel = "j-hartmann/emotion-english-distilroberta-base"
)

// HuggingFace classifies text with a hosted inference model
type HuggingFace struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewHuggingFace creates a HuggingFace classifier. Empty model and baseURL
// select the defaults.
func NewHuggingFace(apiKey, model, baseURL string, client *http.Client) *HuggingFace {
	if model == "" {
		model = huggingFaceModel
	}
	if baseURL == "" {
		baseURL = huggingFaceAPI
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFace{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Classify posts text to the model and decodes its label/score list
func (h *HuggingFace) Classify(ctx context.Context, text string) (mood.RawClassification, error) {
	jsonBody, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", h.baseURL, h.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, unavailable("http request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable("api error (status %d): %s", resp.StatusCode, string(body))
	}

	raw, err := mood.DecodeRaw(body)
	if err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return raw, nil
}
