package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskman/internal/model"
)

// ChatResponderInterface はチャットハンドラーが必要とする応答生成インターフェース。
type ChatResponderInterface interface {
	Reply(message string) string
}

// ChatHandler はキーワードマッチチャットのHTTPハンドラー。
type ChatHandler struct {
	responder ChatResponderInterface
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(responder ChatResponderInterface) *ChatHandler {
	return &ChatHandler{responder: responder}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// Chat はメッセージに対する定型応答を返す。
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSONの形式が正しくありません"))
		return
	}

	writeJSONResponse(w, http.StatusOK, chatResponse{
		Message: h.responder.Reply(req.Message),
		Role:    "assistant",
	})
}
