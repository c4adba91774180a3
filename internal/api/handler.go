package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "lovelace/backend/internal/errors"
	"lovelace/backend/internal/interfaces"
	"lovelace/backend/internal/model"
	"lovelace/backend/internal/sse"
)

// ChatHandler handles HTTP requests for chat lifecycle and streaming.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// CreateChatRequest registers a client-generated chat id.
type CreateChatRequest struct {
	ChatID string `json:"chatId" validate:"required"`
}

// MessagesRequest carries a full ordered transcript.
type MessagesRequest struct {
	Messages []model.Message `json:"messages" validate:"required,dive"`
}

// HandleCreateChat godoc
// @Summary      Create a chat
// @Description  Registers an empty transcript under a client-generated chat id.
// @Tags         Chats
// @Accept       json
// @Produce      json
// @Param        chat  body  CreateChatRequest  true  "Chat ID"
// @Success      200   {object}  DataResponse
// @Failure      401   {object}  MessageResponse
// @Failure      500   {object}  MessageResponse
// @Router       /chat [post]
func (h *ChatHandler) HandleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: %v", app_errors.ErrMalformed, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	identity := IdentityFromContext(r.Context())
	if err := h.service.CreateChat(r.Context(), identity, req.ChatID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Data: req.ChatID})
}

// HandleListChats godoc
// @Summary      List chats
// @Description  Returns the chat ids stored for the authenticated identity.
// @Tags         Chats
// @Produce      json
// @Success      200  {object}  DataResponse
// @Failure      401  {object}  MessageResponse
// @Router       /chat [get]
func (h *ChatHandler) HandleListChats(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	chatIDs, err := h.service.ListChats(r.Context(), identity)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Data: chatIDs})
}

// HandleGetChat godoc
// @Summary      Get a chat transcript
// @Description  Returns the stored message history. An unknown chat id yields an empty list.
// @Tags         Chats
// @Produce      json
// @Param        chatId  path  string  true  "Chat ID"
// @Success      200     {object}  DataResponse
// @Failure      401     {object}  MessageResponse
// @Router       /chat/{chatId} [get]
func (h *ChatHandler) HandleGetChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	identity := IdentityFromContext(r.Context())

	messages, err := h.service.GetTranscript(r.Context(), identity, chatID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Data: messages})
}

// HandleDeleteChat godoc
// @Summary      Delete a chat
// @Description  Removes the transcript and all storage for the chat id.
// @Tags         Chats
// @Produce      json
// @Param        chatId  path  string  true  "Chat ID"
// @Success      200     {object}  MessageResponse
// @Failure      401     {object}  MessageResponse
// @Router       /chat/{chatId} [delete]
func (h *ChatHandler) HandleDeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	identity := IdentityFromContext(r.Context())

	if err := h.service.DeleteChat(r.Context(), identity, chatID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Success"})
}

// HandleSaveMessages godoc
// @Summary      Overwrite a chat transcript
// @Description  Full replacement of the stored transcript; last writer wins. This is the append-on-complete path.
// @Tags         Chats
// @Accept       json
// @Produce      json
// @Param        chatId    path  string           true  "Chat ID"
// @Param        messages  body  MessagesRequest  true  "Full transcript"
// @Success      200       {object}  MessageResponse
// @Failure      401       {object}  MessageResponse
// @Failure      500       {object}  MessageResponse
// @Router       /chat/{chatId}/messages [post]
func (h *ChatHandler) HandleSaveMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	identity := IdentityFromContext(r.Context())

	var req MessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: %v", app_errors.ErrMalformed, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.service.SaveTranscript(r.Context(), identity, chatID, req.Messages); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Success"})
}

// HandleStreamMessage godoc
// @Summary      Stream a chat exchange
// @Description  Streams the model's response to the submitted transcript as Server-Sent Events. The final frame is always the [DONE] sentinel.
// @Tags         Chats
// @Accept       json
// @Produce      text/event-stream
// @Param        chatId    path  string           true  "Chat ID"
// @Param        messages  body  MessagesRequest  true  "Message history plus the new user message"
// @Success      200  {string}  string  "SSE stream"
// @Failure      401  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /chat/{chatId} [post]
func (h *ChatHandler) HandleStreamMessage(w http.ResponseWriter, r *http.Request) {
	var req MessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unparseable body terminates before streaming setup with the
		// generic server error, not a 400.
		respondWithError(w, fmt.Errorf("%w: %v", app_errors.ErrMalformed, err))
		return
	}

	encoder := sse.NewEncoder(w)
	encoder.WriteHeaders()

	// This endpoint does not persist: the consumer saves the reconciled
	// transcript in a separate call once the stream completes.
	streamChan := make(chan model.StreamEvent)
	go h.service.StreamExchange(r.Context(), req.Messages, streamChan)

	for event := range streamChan {
		if r.Context().Err() != nil {
			slog.Info("Client disconnected during stream")
			return
		}

		var err error
		switch {
		case event.Done:
			err = encoder.WriteDone()
		case event.Error:
			err = encoder.WriteError(event.Message, event.Code)
		default:
			err = encoder.WriteContent(event.Content)
		}
		if err != nil {
			slog.Warn("Failed to write stream frame, client might have disconnected", "error", err)
			return
		}
	}
}
