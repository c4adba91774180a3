// Package client is the consumer side of the chat API: it creates and
// manages chats, submits exchanges, and reads the streamed response
// incrementally, reconciling the accumulated result with durable storage
// once the stream completes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"lovelace/backend/internal/model"
	"lovelace/backend/internal/sse"
)

// Fixed vocabulary of user-facing failure messages. An exchange failure
// is matched by substring into one of these categories; anything else
// falls through to the generic message.
const (
	msgOverloaded = "The AI service is currently overloaded. Please try again in a few moments."
	msgRateLimit  = "You've reached the rate limit. Please try again in a few minutes."
	msgNetwork    = "Unable to connect to the chat service. Please check your internet connection."
	msgGeneric    = "Sorry, there was an error communicating with the assistant."
)

// ExchangeError reports a failed exchange. UserMessage is the categorized,
// display-ready text; Err is the underlying cause.
type ExchangeError struct {
	UserMessage string
	Err         error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// PendingExchange is the transient state of one in-flight exchange. It is
// created on submit and discarded when the stream terminates: converted
// into a persisted assistant message on success, or left unconverted on
// failure. Callers should treat IsStreaming as advisory; nothing
// server-side prevents a second concurrent exchange on the same chat,
// and the store's last-write-wins Put means the later one clobbers.
type PendingExchange struct {
	SubmittedMessages   []model.Message
	AccumulatedResponse string
	IsStreaming         bool
}

// Client talks to the chat backend over HTTP.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	tokenHeader string
}

func New(baseURL, token, tokenHeader string) *Client {
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		tokenHeader: tokenHeader,
	}
}

// NewChatID generates a time-ordered chat id locally. The id exists
// client-side before CreateChat resolves, which allows immediate
// navigation to the new chat.
func (c *Client) NewChatID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CreateChat generates a chat id, registers an empty transcript under it,
// and returns the id.
func (c *Client) CreateChat(ctx context.Context) (string, error) {
	chatID := c.NewChatID()

	var resp struct {
		Data string `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/chat", map[string]string{"chatId": chatID}, &resp); err != nil {
		return "", err
	}
	return resp.Data, nil
}

// ListChats returns the caller's chat ids.
func (c *Client) ListChats(ctx context.Context) ([]string, error) {
	var resp struct {
		Data []string `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetTranscript returns the stored history for a chat; an unknown chat id
// yields an empty transcript.
func (c *Client) GetTranscript(ctx context.Context, chatID string) ([]model.Message, error) {
	var resp struct {
		Data []model.Message `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat/"+chatID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SaveTranscript overwrites the stored transcript for a chat.
func (c *Client) SaveTranscript(ctx context.Context, chatID string, messages []model.Message) error {
	return c.doJSON(ctx, http.MethodPost, "/chat/"+chatID+"/messages", map[string]interface{}{"messages": messages}, nil)
}

// DeleteChat removes the chat's transcript. If the deleted chat is the
// one currently open, navigating away is the caller's responsibility.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/"+chatID, nil, nil)
}

// StreamMessage submits one exchange: history plus a new user message. It
// consumes the SSE response incrementally, calling onUpdate with the full
// accumulated buffer after every content delta so callers can render
// progressively. When the stream completes it persists the reconciled
// transcript:
//
//   - non-empty response: history + user message + assistant message, and
//     the assistant message is returned;
//   - empty response: history + user message only (the user's turn is not
//     lost), and nil is returned;
//   - failure: history + user message is still persisted, and an
//     *ExchangeError with a categorized user-facing message is returned.
func (c *Client) StreamMessage(ctx context.Context, chatID string, history []model.Message, userContent string, onUpdate func(accumulated string)) (*model.Message, error) {
	exchange := &PendingExchange{
		SubmittedMessages: append(append([]model.Message{}, history...), model.Message{
			Role:    model.RoleUser,
			Content: userContent,
		}),
		IsStreaming: true,
	}
	defer func() { exchange.IsStreaming = false }()

	err := c.consumeStream(ctx, chatID, exchange, onUpdate)
	if err != nil {
		// Keep the attempted turn durable even though the exchange failed,
		// so a reload does not lose it.
		if saveErr := c.SaveTranscript(ctx, chatID, exchange.SubmittedMessages); saveErr != nil {
			return nil, &ExchangeError{UserMessage: classifyError(err), Err: fmt.Errorf("%w (and saving the transcript failed: %v)", err, saveErr)}
		}
		return nil, &ExchangeError{UserMessage: classifyError(err), Err: err}
	}

	if exchange.AccumulatedResponse == "" {
		if err := c.SaveTranscript(ctx, chatID, exchange.SubmittedMessages); err != nil {
			return nil, &ExchangeError{UserMessage: classifyError(err), Err: err}
		}
		return nil, nil
	}

	assistant := model.Message{Role: model.RoleAssistant, Content: exchange.AccumulatedResponse}
	final := append(append([]model.Message{}, exchange.SubmittedMessages...), assistant)
	if err := c.SaveTranscript(ctx, chatID, final); err != nil {
		return nil, &ExchangeError{UserMessage: classifyError(err), Err: err}
	}
	return &assistant, nil
}

// consumeStream drives the single read loop of an exchange. It suspends
// at each read of the response body; there are no parallel readers. The
// loop stops immediately when the [DONE] sentinel arrives rather than
// waiting for the transport to close.
func (c *Client) consumeStream(ctx context.Context, chatID string, exchange *PendingExchange, onUpdate func(string)) error {
	body, err := json.Marshal(map[string]interface{}{"messages": exchange.SubmittedMessages})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/"+chatID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set(c.tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %d: %s", resp.StatusCode, string(bodyBytes))
	}

	reader := sse.NewReader(resp.Body)
	for {
		data, err := reader.ReadData()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("stream read failed: %w", err)
		}
		if sse.IsDone(data) {
			return nil
		}

		var event model.StreamEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return fmt.Errorf("could not parse stream event: %w", err)
		}
		if event.Error {
			return fmt.Errorf("stream error (%s): %s", event.Code, event.Message)
		}

		exchange.AccumulatedResponse += event.Content
		if onUpdate != nil {
			onUpdate(exchange.AccumulatedResponse)
		}
	}
}

// classifyError maps an exchange failure into the fixed user-facing
// vocabulary by substring.
func classifyError(err error) string {
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "overloaded"):
		return msgOverloaded
	case strings.Contains(text, "rate limit"):
		return msgRateLimit
	case strings.Contains(text, "network"):
		return msgNetwork
	}
	return msgGeneric
}

// doJSON performs a request with an optional JSON body, decoding the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(c.tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("could not decode response: %w", err)
		}
	}
	return nil
}
