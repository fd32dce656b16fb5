package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	httpclient "resume-rank/pkg/http"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGroq   Provider = "groq"
	ProviderNone   Provider = "none"
)

// Service talks to the reasoning backend. Responses are free-form text that
// callers must parse defensively.
type Service struct {
	provider Provider
	apiKey   string
	model    string
	baseURL  string // Ollama base URL
	client   *httpclient.Client
}

func NewService(provider, apiKey, model, ollamaBaseURL string) *Service {
	return &Service{
		provider: Provider(provider),
		apiKey:   apiKey,
		model:    model,
		baseURL:  ollamaBaseURL,
		client:   httpclient.NewClient(600 * time.Second), // slow local models need headroom
	}
}

// Generate sends a prompt to the configured provider and returns the raw
// response text.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	switch s.provider {
	case ProviderOpenAI:
		return s.callChatCompletions(ctx, "https://api.openai.com/v1/chat/completions", prompt)
	case ProviderGroq:
		return s.callChatCompletions(ctx, "https://api.groq.com/openai/v1/chat/completions", prompt)
	case ProviderOllama:
		return s.callOllama(ctx, prompt)
	case ProviderNone:
		return "", fmt.Errorf("LLM provider not configured")
	default:
		return "", fmt.Errorf("unknown provider: %s", s.provider)
	}
}

func (s *Service) callChatCompletions(ctx context.Context, url, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a resume analyst. Return only valid JSON.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.1,
		"response_format": map[string]string{
			"type": "json_object",
		},
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	headers := map[string]string{"Authorization": "Bearer " + s.apiKey}
	if err := s.client.PostJSON(ctx, url, headers, reqBody, &result); err != nil {
		return "", classifyCallError(err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	return result.Choices[0].Message.Content, nil
}

func (s *Service) callOllama(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  s.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": 0.1,
		},
	}

	var result struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}

	start := time.Now()
	err := s.client.PostJSON(ctx, s.baseURL+"/api/generate", nil, reqBody, &result)
	if err != nil {
		if errors.Is(err, httpclient.ErrDecode) {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return "", fmt.Errorf("%w: is Ollama running? %v", ErrBackendUnavailable, err)
	}
	log.Printf("[LLM] Ollama request took %v", time.Since(start))

	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, result.Error)
	}
	return result.Response, nil
}

// classifyCallError folds transport and status failures into
// ErrBackendUnavailable and undecodable bodies into ErrMalformedResponse.
func classifyCallError(err error) error {
	if errors.Is(err, httpclient.ErrDecode) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
