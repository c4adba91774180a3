package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovelace/backend/internal/client"
	"lovelace/backend/internal/model"
)

// fakeServer implements just enough of the chat API for the consumer
// tests: a scripted stream body plus capture of transcript saves.
type fakeServer struct {
	mu          sync.Mutex
	streamBody  string
	streamCode  int
	savedBodies [][]model.Message
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/{chatID}/messages", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []model.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.mu.Lock()
		f.savedBodies = append(f.savedBodies, req.Messages)
		f.mu.Unlock()
		fmt.Fprint(w, `{"message":"Success"}`)
	})
	mux.HandleFunc("POST /chat/{chatID}", func(w http.ResponseWriter, r *http.Request) {
		if f.streamCode != 0 && f.streamCode != http.StatusOK {
			w.WriteHeader(f.streamCode)
			fmt.Fprint(w, `{"message":"Server error"}`)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, f.streamBody)
	})
	return mux
}

func (f *fakeServer) lastSaved(t *testing.T) []model.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.savedBodies)
	return f.savedBodies[len(f.savedBodies)-1]
}

func setupStreamTest(t *testing.T, streamBody string) (*client.Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{streamBody: streamBody}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return client.New(server.URL, "TEST", "X-Auth-Token"), fake
}

func TestStreamMessage_AccumulatesAndPersists(t *testing.T) {
	c, fake := setupStreamTest(t, "data: {\"content\":\"He\"}\n\ndata: {\"content\":\"llo\"}\n\ndata: [DONE]\n\n")

	var snapshots []string
	assistant, err := c.StreamMessage(context.Background(), "chat1", nil, "Say hello", func(accumulated string) {
		snapshots = append(snapshots, accumulated)
	})

	require.NoError(t, err)
	require.NotNil(t, assistant)
	assert.Equal(t, model.RoleAssistant, assistant.Role)
	assert.Equal(t, "Hello", assistant.Content)

	// The caller sees every intermediate buffer for progressive rendering.
	assert.Equal(t, []string{"He", "Hello"}, snapshots)

	// The persisted transcript is history + user turn + assistant turn.
	saved := fake.lastSaved(t)
	require.Len(t, saved, 2)
	assert.Equal(t, model.Message{Role: model.RoleUser, Content: "Say hello"}, saved[0])
	assert.Equal(t, model.Message{Role: model.RoleAssistant, Content: "Hello"}, saved[1])
}

// Frames after the terminal sentinel are never consumed: the read loop
// stops immediately on [DONE].
func TestStreamMessage_StopsAtSentinel(t *testing.T) {
	c, _ := setupStreamTest(t, "data: {\"content\":\"Hi\"}\n\ndata: [DONE]\n\ndata: {\"content\":\"ignored\"}\n\n")

	assistant, err := c.StreamMessage(context.Background(), "chat1", nil, "Hey", nil)
	require.NoError(t, err)
	require.NotNil(t, assistant)
	assert.Equal(t, "Hi", assistant.Content)
}

func TestStreamMessage_EmptyResponseKeepsUserTurn(t *testing.T) {
	c, fake := setupStreamTest(t, "data: [DONE]\n\n")

	assistant, err := c.StreamMessage(context.Background(), "chat1", nil, "Anyone there?", nil)
	require.NoError(t, err)
	assert.Nil(t, assistant)

	// No assistant message is appended, but the user's turn survives.
	saved := fake.lastSaved(t)
	require.Len(t, saved, 1)
	assert.Equal(t, model.RoleUser, saved[0].Role)
}

func TestStreamMessage_ErrorFrame(t *testing.T) {
	c, fake := setupStreamTest(t, "data: {\"error\":true,\"message\":\"servers are overloaded\",\"code\":\"overloaded_error\"}\n\ndata: [DONE]\n\n")

	history := []model.Message{
		{Role: model.RoleUser, Content: "earlier"},
		{Role: model.RoleAssistant, Content: "reply"},
	}
	assistant, err := c.StreamMessage(context.Background(), "chat1", history, "Again", nil)

	require.Error(t, err)
	assert.Nil(t, assistant)

	var exchangeErr *client.ExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Equal(t, "The AI service is currently overloaded. Please try again in a few moments.", exchangeErr.UserMessage)

	// The attempted turn is still persisted so a reload does not lose it.
	saved := fake.lastSaved(t)
	require.Len(t, saved, 3)
	assert.Equal(t, "Again", saved[2].Content)
}

func TestStreamMessage_RateLimitMessage(t *testing.T) {
	c, _ := setupStreamTest(t, "data: {\"error\":true,\"message\":\"rate limit exceeded\",\"code\":\"rate_limit_error\"}\n\ndata: [DONE]\n\n")

	_, err := c.StreamMessage(context.Background(), "chat1", nil, "Hi", nil)
	var exchangeErr *client.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "You've reached the rate limit. Please try again in a few minutes.", exchangeErr.UserMessage)
}

func TestStreamMessage_MalformedFrameIsFatal(t *testing.T) {
	c, _ := setupStreamTest(t, "data: {not json}\n\ndata: [DONE]\n\n")

	_, err := c.StreamMessage(context.Background(), "chat1", nil, "Hi", nil)
	var exchangeErr *client.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "Sorry, there was an error communicating with the assistant.", exchangeErr.UserMessage)
}

func TestStreamMessage_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	c := client.New(server.URL, "TEST", "X-Auth-Token")
	_, err := c.StreamMessage(context.Background(), "chat1", nil, "Hi", nil)

	var exchangeErr *client.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "Unable to connect to the chat service. Please check your internet connection.", exchangeErr.UserMessage)
}

func TestNewChatID_TimeOrdered(t *testing.T) {
	c := client.New("http://localhost", "TEST", "X-Auth-Token")

	id := c.NewChatID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	// V7 ids generated in sequence sort in generation order.
	assert.Less(t, id, c.NewChatID())
}

func TestCreateChat_RegistersGeneratedID(t *testing.T) {
	var registered string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "TEST", r.Header.Get("X-Auth-Token"))

		var req struct {
			ChatID string `json:"chatId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		registered = req.ChatID
		fmt.Fprintf(w, `{"data":%q}`, req.ChatID)
	}))
	defer server.Close()

	c := client.New(server.URL, "TEST", "X-Auth-Token")
	chatID, err := c.CreateChat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, registered, chatID)
	assert.NotEmpty(t, chatID)
}

func TestListAndDeleteChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/chat":
			fmt.Fprint(w, `{"data":["chat1","chat2"]}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/chat/chat1":
			fmt.Fprint(w, `{"message":"Success"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := client.New(server.URL, "TEST", "X-Auth-Token")

	ids, err := c.ListChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chat1", "chat2"}, ids)

	assert.NoError(t, c.DeleteChat(context.Background(), "chat1"))
}

func TestGetTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"role":"user","content":"Hello"}]}`)
	}))
	defer server.Close()

	c := client.New(server.URL, "TEST", "X-Auth-Token")
	messages, err := c.GetTranscript(context.Background(), "chat1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Content)
}
