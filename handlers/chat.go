// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/fitfamily/assistant"
	"github.com/danielhkuo/fitfamily/middleware"
	"github.com/danielhkuo/fitfamily/models"
	"github.com/danielhkuo/fitfamily/store"
)

// chatHistoryPage is how many messages GET /chat returns.
const chatHistoryPage = 50

type ChatHandler struct {
	store     *store.Store
	assistant *assistant.Assistant
}

func NewChatHandler(db *sql.DB, asst *assistant.Assistant) *ChatHandler {
	return &ChatHandler{store: store.New(db), assistant: asst}
}

// GetHistory handles GET /chat
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.store.RecentMessages(r.Context(), userID, models.ChannelChat, chatHistoryPage)
	if err != nil {
		writeError(w, err, "Failed to load chat history")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ChatHistoryResponse{Messages: msgs})
}

// SendMessage handles POST /chat
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.assistant.Chat(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, err, "Failed to process message")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ChatResponse{
		Message:                  res.Message,
		ActionsExecuted:          res.ActionsExecuted,
		ProfileUpdated:           res.ProfileUpdated,
		RecommendationsGenerated: res.RecommendationsGenerated,
		ProfileError:             errorText(res.ProfileErr),
		RecommendationsError:     errorText(res.RecommendationErr),
	})
}

// ClearHistory handles DELETE /chat. Onboarding messages are kept.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.store.ClearMessages(r.Context(), userID, models.ChannelChat)
	if err != nil {
		writeError(w, err, "Failed to clear chat history")
		return
	}

	slog.Info("chat history cleared", "user_id", userID, "messages", n)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
