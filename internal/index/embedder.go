package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-rank/internal/llm"
	httpclient "resume-rank/pkg/http"
)

// Embedder maps text to a fixed-dimension vector. Implementations may fail
// per call; the store retries and isolates failures to the affected chunk.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder generates embeddings through a local Ollama instance.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *httpclient.Client
}

func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		baseURL: baseURL,
		model:   model,
		client:  httpclient.NewClient(30 * time.Second),
	}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return llm.Retry(ctx, 3, func() ([]float32, error) {
		return e.embedOnce(ctx, text)
	})
}

func (e *OllamaEmbedder) embedOnce(ctx context.Context, text string) ([]float32, error) {
	reqBody := map[string]interface{}{
		"model":  e.model,
		"prompt": text,
	}

	var result struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := e.client.PostJSON(ctx, e.baseURL+"/api/embeddings", nil, reqBody, &result); err != nil {
		if errors.Is(err, httpclient.ErrDecode) {
			return nil, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
		}
		return nil, fmt.Errorf("%w: %v", llm.ErrBackendUnavailable, err)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", llm.ErrMalformedResponse)
	}
	return result.Embedding, nil
}
