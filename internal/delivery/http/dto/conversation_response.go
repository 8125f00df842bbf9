package dto

import (
	"time"

	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/domain/skill"
	"skillmatch/internal/infrastructure/storage"
	"skillmatch/internal/usecase"

	"github.com/google/uuid"
)

type ConversationResponse struct {
	ID            uuid.UUID  `json:"id"`
	User1ID       uuid.UUID  `json:"user_1_id"`
	User2ID       uuid.UUID  `json:"user_2_id"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewConversationResponse(c conversation.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		User1ID:       c.User1ID,
		User2ID:       c.User2ID,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

type ConversationSummaryResponse struct {
	ConversationResponse
	Counterpart SummaryResponse `json:"counterpart"`
	UnreadCount int             `json:"unread_count"`
}

func NewConversationSummaryResponses(items []usecase.ConversationSummary) []ConversationSummaryResponse {
	out := make([]ConversationSummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, ConversationSummaryResponse{
			ConversationResponse: NewConversationResponse(s.Conversation),
			Counterpart:          NewSummaryResponse(s.Counterpart),
			UnreadCount:          s.UnreadCount,
		})
	}
	return out
}

type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	ReceiverID     uuid.UUID `json:"receiver_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewMessageResponse(m conversation.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}
}

func NewMessageResponses(items []conversation.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

type SkillCategoryResponse struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

func NewSkillCategoryResponses(items []skill.Category) []SkillCategoryResponse {
	out := make([]SkillCategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, SkillCategoryResponse{Name: c.Name, Skills: nonNil(c.Skills)})
	}
	return out
}

type UploadResponse struct {
	UploadURL       string            `json:"upload_url"`
	ObjectKey       string            `json:"object_key"`
	ExpiresIn       int               `json:"expires_in"`
	RequiredHeaders map[string]string `json:"required_headers"`
}

func NewUploadResponse(info storage.UploadInfo) UploadResponse {
	return UploadResponse{
		UploadURL:       info.UploadURL,
		ObjectKey:       info.ObjectKey,
		ExpiresIn:       int(info.Expires.Seconds()),
		RequiredHeaders: info.RequiredHeaders,
	}
}
