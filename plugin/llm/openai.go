package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms/openai"
)

const defaultTimeout = 30 * time.Second

// Config describes an OpenAI-compatible completion endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOpenAI returns a Model backed by an OpenAI-compatible chat completion
// endpoint. The HTTP client enforces cfg.Timeout on every call.
func NewOpenAI(cfg Config) (*LangchainModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("new completion model: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("new completion model: model is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	options := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		options = append(options, openai.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	client, err := openai.New(options...)
	if err != nil {
		return nil, fmt.Errorf("new completion model: %w", err)
	}
	return NewLangchainModel(client), nil
}
