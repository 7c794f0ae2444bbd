package repositories

import (
	"context"
	"errors"
	"fmt"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/supabase"
)

type ConversationRepository struct {
	Client *supabase.Client
}

const conversationsTable = "conversations"

func (r *ConversationRepository) ConversationsByUser(ctx context.Context, token, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.Client.From(conversationsTable).
		Auth(token).
		Select("*").
		Eq("user_id", userID).
		Order("updated_at", true).
		Get(ctx, &conversations)
	if err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) ConversationByID(ctx context.Context, token string, id int) (models.Conversation, error) {
	var conversation models.Conversation
	err := r.Client.From(conversationsTable).
		Auth(token).
		Select("*").
		Eq("id", fmt.Sprint(id)).
		Single(ctx, &conversation)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Conversation{}, models.ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

// TouchLastMessage keeps the list preview in sync after a new message.
func (r *ConversationRepository) TouchLastMessage(ctx context.Context, token string, id int, text string) error {
	err := r.Client.From(conversationsTable).
		Auth(token).
		Eq("id", fmt.Sprint(id)).
		Update(ctx, map[string]any{"last_message": text}, nil)
	if err != nil {
		return fmt.Errorf("touch conversation %d: %w", id, err)
	}
	return nil
}

func (r *ConversationRepository) MarkRead(ctx context.Context, token string, id int) error {
	err := r.Client.From(conversationsTable).
		Auth(token).
		Eq("id", fmt.Sprint(id)).
		Update(ctx, map[string]any{"unread": 0}, nil)
	if err != nil {
		return fmt.Errorf("mark conversation %d read: %w", id, err)
	}
	return nil
}
