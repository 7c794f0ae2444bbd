package services

import (
	"context"

	"declutteredWeb/internal/assistant"
	"declutteredWeb/internal/models"
	"declutteredWeb/internal/repositories"
)

type ConversationService struct {
	ConversationRepo *repositories.ConversationRepository
	MessageRepo      *repositories.MessageRepository
	Assistant        *assistant.Client
}

func (s *ConversationService) ConversationsForUser(ctx context.Context, token, userID string) (models.ConversationListResponse, error) {
	conversations, err := s.ConversationRepo.ConversationsByUser(ctx, token, userID)
	if err != nil {
		return models.ConversationListResponse{}, err
	}
	resp := models.ConversationListResponse{Conversations: conversations}
	for _, c := range conversations {
		resp.TotalUnread += c.Unread
	}
	return resp, nil
}

// Messages returns one page of a conversation the user owns. Reading a
// conversation clears its unread counter.
func (s *ConversationService) Messages(ctx context.Context, token string, conversationID, page, pageSize int) (models.MessageListResponse, error) {
	conversation, err := s.ConversationRepo.ConversationByID(ctx, token, conversationID)
	if err != nil {
		return models.MessageListResponse{}, err
	}

	messages, err := s.MessageRepo.MessagesForConversation(ctx, token, conversation.ID, page, pageSize)
	if err != nil {
		return models.MessageListResponse{}, err
	}

	if conversation.Unread > 0 {
		_ = s.ConversationRepo.MarkRead(ctx, token, conversation.ID)
	}
	return models.MessageListResponse{Messages: messages, Total: len(messages)}, nil
}

func (s *ConversationService) SendReply(ctx context.Context, token string, conversationID int, text string) (models.Message, error) {
	conversation, err := s.ConversationRepo.ConversationByID(ctx, token, conversationID)
	if err != nil {
		return models.Message{}, err
	}

	msg, err := s.MessageRepo.CreateMessage(ctx, token, conversation.ID, models.SenderSeller, text)
	if err != nil {
		return models.Message{}, err
	}
	if err := s.ConversationRepo.TouchLastMessage(ctx, token, conversation.ID, text); err != nil {
		return msg, err
	}
	return msg, nil
}

// DraftReply asks the assistant for a reply suggestion grounded in the
// conversation so far. The assistant degrades to a canned reply on its
// own, so failures here are rare.
func (s *ConversationService) DraftReply(ctx context.Context, token string, conversationID int) (string, error) {
	conversation, err := s.ConversationRepo.ConversationByID(ctx, token, conversationID)
	if err != nil {
		return "", err
	}

	messages, err := s.MessageRepo.MessagesForConversation(ctx, token, conversation.ID, 1, 20)
	if err != nil {
		return "", err
	}

	req := assistant.DraftRequest{
		BuyerName: conversation.BuyerName,
		ItemTitle: conversation.ItemTitle,
		Messages:  make([]assistant.ChatMessage, 0, len(messages)),
	}
	if conversation.OfferAmount != nil {
		req.OfferAmount = *conversation.OfferAmount
	}
	for _, m := range messages {
		role := "user"
		if m.Sender == models.SenderSeller || m.Sender == models.SenderAssistant {
			role = "assistant"
		}
		req.Messages = append(req.Messages, assistant.ChatMessage{Role: role, Content: m.Text})
	}

	draftCtx, cancel := context.WithTimeout(ctx, assistant.DraftTimeout)
	defer cancel()
	return s.Assistant.GenerateDraft(draftCtx, req)
}
