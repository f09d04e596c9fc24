// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAI implements [BatchProvider] for the OpenAI embeddings API.
// Requests are POSTed to {endpoint}/embeddings. This is compatible
// with any server that implements the OpenAI embeddings wire format.
type OpenAI struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewOpenAI creates an OpenAI-compatible provider. endpoint is the API
// base URL (e.g. "https://api.openai.com/v1"); apiKey may be empty for
// servers without authentication. A nil httpClient uses
// [http.DefaultClient].
func NewOpenAI(httpClient *http.Client, endpoint, apiKey string) *OpenAI {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAI{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		apiKey:     apiKey,
	}
}

type openaiRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openaiResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// Embed embeds a single text.
func (provider *OpenAI) Embed(ctx context.Context, text string, model ModelID) (Vector, error) {
	vectors, err := provider.EmbedBatch(ctx, []string{text}, model)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in a single request. The response is
// reordered by its index field, so servers that answer out of order
// still produce vectors aligned with texts.
func (provider *OpenAI) EmbedBatch(ctx context.Context, texts []string, model ModelID) ([]Vector, error) {
	body, err := json.Marshal(openaiRequest{Model: string(model), Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedding/openai: marshaling request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost,
		provider.endpoint+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Model: model, Message: "creating request", Err: err}
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if provider.apiKey != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+provider.apiKey)
	}

	httpResponse, err := provider.httpClient.Do(httpRequest)
	if err != nil {
		return nil, &ProviderError{Model: model, Message: "sending request", Err: err}
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, readProviderError(model, httpResponse)
	}

	var wireResponse openaiResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wireResponse); err != nil {
		return nil, &ProviderError{Model: model, Message: "decoding response", Err: err}
	}
	if len(wireResponse.Data) != len(texts) {
		return nil, &ProviderError{
			Model:   model,
			Message: fmt.Sprintf("response has %d embeddings for %d inputs", len(wireResponse.Data), len(texts)),
		}
	}

	vectors := make([]Vector, len(texts))
	for _, item := range wireResponse.Data {
		if item.Index < 0 || item.Index >= len(texts) || vectors[item.Index] != nil {
			return nil, &ProviderError{Model: model, Message: fmt.Sprintf("response has invalid or repeated index %d", item.Index)}
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

// readProviderError parses an error response body in the common
// {"error":{"type":"...","message":"..."}} format, falling back to the
// raw body.
func readProviderError(model ModelID, httpResponse *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))

	var wireError struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &ProviderError{
			Model:      model,
			StatusCode: httpResponse.StatusCode,
			Type:       wireError.Error.Type,
			Message:    wireError.Error.Message,
		}
	}

	return &ProviderError{
		Model:      model,
		StatusCode: httpResponse.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
