package repositories

import (
	"context"
	"fmt"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/supabase"
)

type MessageRepository struct {
	Client *supabase.Client
}

const messagesTable = "messages"

type messageInsert struct {
	ConversationID int    `json:"conversation_id"`
	Sender         string `json:"sender"`
	Text           string `json:"text"`
}

func (r *MessageRepository) MessagesForConversation(ctx context.Context, token string, conversationID, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var messages []models.Message
	err := r.Client.From(messagesTable).
		Auth(token).
		Select("*").
		Eq("conversation_id", fmt.Sprint(conversationID)).
		Order("created_at", false).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Get(ctx, &messages)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, token string, conversationID int, sender, text string) (models.Message, error) {
	var created []models.Message
	err := r.Client.From(messagesTable).
		Auth(token).
		Insert(ctx, []messageInsert{{
			ConversationID: conversationID,
			Sender:         sender,
			Text:           text,
		}}, &created)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	if len(created) == 0 {
		return models.Message{}, fmt.Errorf("insert message: empty representation")
	}
	return created[0], nil
}
