package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/mood"
)

// ErrUnavailable is returned when the classification backend could not be
// reached, rejected the request, or is not configured.
var ErrUnavailable = errors.New("classifier unavailable")

// Classifier turns a text into a raw label/score distribution.
type Classifier interface {
	Classify(ctx context.Context, text string) (mood.RawClassification, error)
}

// Disabled is a Classifier that is never available.
type Disabled struct {
	Reason string
}

func (d Disabled) Classify(context.Context, string) (mood.RawClassification, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, d.Reason)
}

// New builds the backend selected by cfg. A backend without credentials is
// returned as Disabled so that journaling keeps working.
func New(cfg config.ClassifierConfig) Classifier {
	client := &http.Client{Timeout: cfg.Timeout()}

	switch cfg.Provider {
	case "huggingface":
		if cfg.APIKey == "" {
			return Disabled{Reason: "HF_API_KEY not set"}
		}
		return NewHuggingFace(cfg.APIKey, cfg.Model, cfg.BaseURL, client)
	case "anthropic":
		if cfg.APIKey == "" {
			return Disabled{Reason: "ANTHROPIC_API_KEY not set"}
		}
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL, client)
	default:
		return Disabled{Reason: "classification disabled"}
	}
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}
