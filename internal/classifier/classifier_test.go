package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/mood"
)

func TestHuggingFaceClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test/model", r.URL.Path)
		assert.Equal(t, "Bearer hf_key", r.Header.Get("Authorization"))

		var req inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what a day", req.Inputs)

		io.WriteString(w, `[[{"label":"joy","score":0.91},{"label":"sadness","score":0.09}]]`)
	}))
	defer srv.Close()

	hf := NewHuggingFace("hf_key", "test/model", srv.URL, srv.Client())
	raw, err := hf.Classify(context.Background(), "what a day")
	require.NoError(t, err)
	assert.Equal(t, mood.RawClassification{{Label: "joy", Score: 0.91}, {Label: "sadness", Score: 0.09}}, raw)
}

func TestHuggingFaceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, ErrUnavailable},
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad token"}`, ErrUnavailable},
		{"unexpected shape", http.StatusOK, `{"error":"nope"}`, mood.ErrFormat},
		{"bad score", http.StatusOK, `[[{"label":"joy","score":"high"}]]`, mood.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHuggingFace("k", "", srv.URL, srv.Client()).Classify(context.Background(), "text")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestHuggingFaceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHuggingFace("k", "", url, nil).Classify(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnthropicClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))

		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "I miss my dog")

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{
				"type": "text",
				"text": "```json\n[{\"label\":\"sadness\",\"score\":0.8},{\"label\":\"neutral\",\"score\":0.2}]\n```",
			}},
		})
	}))
	defer srv.Close()

	a := NewAnthropic("sk-test", "", srv.URL, srv.Client())
	raw, err := a.Classify(context.Background(), "I miss my dog")
	require.NoError(t, err)
	assert.Equal(t, mood.RawClassification{{Label: "sadness", Score: 0.8}, {Label: "neutral", Score: 0.2}}, raw)
	assert.Equal(t, mood.Sad, mood.Resolve(raw).Mood)
}

func TestAnthropicErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrUnavailable},
		{"api error", http.StatusOK, `{"error":{"message":"overloaded"}}`, ErrUnavailable},
		{"no content", http.StatusOK, `{"content":[]}`, mood.ErrFormat},
		{"prose", http.StatusOK, `{"content":[{"type":"text","text":"I think it is joy."}]}`, mood.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewAnthropic("k", "", srv.URL, srv.Client()).Classify(context.Background(), "text")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew(t *testing.T) {
	_, ok := New(config.ClassifierConfig{Provider: "huggingface", APIKey: "k"}).(*HuggingFace)
	assert.True(t, ok)

	_, ok = New(config.ClassifierConfig{Provider: "anthropic", APIKey: "k"}).(*Anthropic)
	assert.True(t, ok)

	for _, cfg := range []config.ClassifierConfig{
		{Provider: "huggingface"},
		{Provider: "anthropic"},
		{Provider: "none", APIKey: "k"},
	} {
		_, err := New(cfg).Classify(context.Background(), "text")
		assert.ErrorIs(t, err, ErrUnavailable, cfg.Provider)
	}
}
