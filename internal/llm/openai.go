package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	app_errors "lovelace/backend/internal/errors"
	"lovelace/backend/internal/model"
	"lovelace/backend/internal/sse"
)

// systemPrompt is prepended to every transcript sent upstream. It is
// injected here, on every invocation, and never stored; callers must not
// include their own leading system message.
const systemPrompt = `When you don't know something or aren't confident in your answer:
- Explicitly acknowledge uncertainty with phrases like "I don't know" or "I'm not sure"
- Avoid guessing or making up information to appear knowledgeable
- Explain the limitations in your knowledge when relevant
- Offer to search for information when appropriate
- Suggest alternative approaches the user might take to find the answer

Remember that admitting uncertainty builds trust more than providing a confident but incorrect answer. Users prefer honesty about your limitations over fabricated responses.

If you provide information, clearly distinguish between:
- Facts you're confident about
- Reasonable inferences (marking them as such)
- Speculative information (clearly labeled as uncertain)

Always prioritize accuracy over comprehensiveness. It's better to provide partial information you're confident about than complete information that might be wrong.

Remember, the user may not be providing accurate information, so don't blindly trust that what they tell you is true.`

// StreamChunk is one item of a gateway stream: either a content delta or
// the terminal error. When Err is set no further chunks follow.
type StreamChunk struct {
	Content string
	Err     *app_errors.UpstreamError
}

// LLMProvider defines the interface for interacting with a language model.
// GenerateStream produces a lazy, single-pass, non-restartable sequence of
// content deltas on ch and always closes the channel when done. A gateway
// failure is surfaced as the terminal chunk rather than retracted past
// consumption already begun.
type LLMProvider interface {
	GenerateStream(ctx context.Context, messages []model.Message, ch chan<- StreamChunk)
}

type openAIProvider struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewOpenAIProvider creates a provider speaking the OpenAI-compatible
// chat-completions protocol. Ollama's /v1 endpoint is one such backend.
func NewOpenAIProvider(baseURL, modelName string) LLMProvider {
	return &openAIProvider{
		client:  &http.Client{},
		baseURL: baseURL,
		model:   modelName,
	}
}

type chatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []model.Message `json:"messages"`
	Stream   bool            `json:"stream"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (p *openAIProvider) GenerateStream(ctx context.Context, messages []model.Message, ch chan<- StreamChunk) {
	defer close(ch)

	withSystem := make([]model.Message, 0, len(messages)+1)
	withSystem = append(withSystem, model.Message{Role: model.RoleSystem, Content: systemPrompt})
	withSystem = append(withSystem, messages...)

	body, err := json.Marshal(chatCompletionRequest{
		Model:    p.model,
		Messages: withSystem,
		Stream:   true,
	})
	if err != nil {
		sendErr(ctx, ch, upstreamErr(fmt.Sprintf("could not marshal request: %v", err), "request_error"))
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		sendErr(ctx, ch, upstreamErr(fmt.Sprintf("could not create request: %v", err), "request_error"))
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		sendErr(ctx, ch, upstreamErr(fmt.Sprintf("network error: %v", err), "network_error"))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		sendErr(ctx, ch, classifyHTTPError(resp))
		return
	}

	reader := sse.NewReader(resp.Body)
	for {
		data, err := reader.ReadData()
		if err != nil {
			if err == io.EOF {
				return
			}
			sendErr(ctx, ch, upstreamErr(fmt.Sprintf("stream read failed: %v", err), "stream_error"))
			return
		}
		if sse.IsDone(data) {
			return
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed upstream chunks rather than killing the stream.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			// Empty fragments are suppressed, never forwarded.
			continue
		}

		select {
		case ch <- StreamChunk{Content: content}:
		case <-ctx.Done():
			return
		}
	}
}

// classifyHTTPError maps a non-200 upstream response into the closed
// upstream error taxonomy, preferring the code reported in the body.
func classifyHTTPError(resp *http.Response) *app_errors.UpstreamError {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var parsed apiError
	if err := json.Unmarshal(bodyBytes, &parsed); err == nil && parsed.Error.Message != "" {
		code := parsed.Error.Code
		if code == "" {
			code = parsed.Error.Type
		}
		if code == "" {
			code = "unknown_error"
		}
		return upstreamErr(parsed.Error.Message, code)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return upstreamErr("rate limit exceeded", "rate_limit_error")
	case http.StatusServiceUnavailable, 529:
		return upstreamErr("model servers are currently overloaded", "overloaded_error")
	}
	return upstreamErr(fmt.Sprintf("api returned status %d: %s", resp.StatusCode, string(bodyBytes)), "unknown_error")
}

func upstreamErr(message, code string) *app_errors.UpstreamError {
	return &app_errors.UpstreamError{Message: message, Code: code}
}

func sendErr(ctx context.Context, ch chan<- StreamChunk, uerr *app_errors.UpstreamError) {
	select {
	case ch <- StreamChunk{Err: uerr}:
	case <-ctx.Done():
	}
}
