package models

import "time"

const (
	SenderBuyer     = "buyer"
	SenderSeller    = "seller"
	SenderAssistant = "assistant"
)

type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}
