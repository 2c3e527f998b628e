package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/superleo/marketingops/backend/internal/assistant"
)

type ChatSessionResponse struct {
	ID       string              `json:"id"`
	Messages []assistant.Message `json:"messages"`
}

type SendChatMessageRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) OpenChatHandler(w http.ResponseWriter, r *http.Request) {
	id, msgs, err := h.Assistant.Open(r.Context())
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, ChatSessionResponse{ID: id, Messages: msgs})
}

func (h *APIHandler) ListChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	msgs, err := h.Assistant.Messages(id)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ChatSessionResponse{ID: id, Messages: msgs})
}

// SendChatMessageHandler returns the messages this turn appended, the user's first.
func (h *APIHandler) SendChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req SendChatMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	msgs, err := h.Assistant.Send(r.Context(), id, req.Text)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ChatSessionResponse{ID: id, Messages: msgs})
}

func (h *APIHandler) CloseChatHandler(w http.ResponseWriter, r *http.Request) {
	h.Assistant.Close(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
