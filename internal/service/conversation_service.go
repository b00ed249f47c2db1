package service

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	Get(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error)
	Rename(ctx context.Context, userId, conversationId uuid.UUID, req *dto.RenameConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId, conversationId uuid.UUID) error
	ListMessages(ctx context.Context, userId, conversationId uuid.UUID) ([]dto.MessageResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{uowFactory: uowFactory}
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	settings := entity.DefaultSettings()
	if req.Settings != nil {
		if req.Settings.MaxTokens != nil {
			settings.MaxTokens = *req.Settings.MaxTokens
		}
		if req.Settings.Temperature != nil {
			settings.Temperature = *req.Settings.Temperature
		}
	}
	settings = settings.Clamp()

	title := req.Title
	if title == "" {
		title = "New conversation"
	}

	conversation := &entity.Conversation{
		Id:           uuid.New(),
		UserId:       userId,
		Title:        title,
		SystemPrompt: req.SystemPrompt,
		Settings:     settings,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	return toConversationResponse(conversation), nil
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ConversationResponse, len(conversations))
	for i, c := range conversations {
		out[i] = toConversationResponse(c)
	}
	return out, nil
}

func (s *conversationService) Get(ctx context.Context, userId, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	messages, err := s.orderedMessages(ctx, uow, conversationId)
	if err != nil {
		return nil, err
	}

	return &dto.ConversationDetailResponse{
		ConversationResponse: *toConversationResponse(conversation),
		Messages:             messages,
	}, nil
}

func (s *conversationService) Rename(ctx context.Context, userId, conversationId uuid.UUID, req *dto.RenameConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	conversation.Title = req.Title
	conversation.UpdatedAt = time.Now()
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}

	return toConversationResponse(conversation), nil
}

func (s *conversationService) Delete(ctx context.Context, userId, conversationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return err
	}

	// Messages first, then the conversation row, one transaction.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByConversationId(ctx, conversation.Id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversation.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *conversationService) ListMessages(ctx context.Context, userId, conversationId uuid.UUID) ([]dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwned(ctx, uow, userId, conversationId); err != nil {
		return nil, err
	}
	return s.orderedMessages(ctx, uow, conversationId)
}

func (s *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	return conversation, nil
}

func (s *conversationService) orderedMessages(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]dto.MessageResponse, error) {
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = dto.MessageResponse{
			Id:            m.Id,
			Role:          string(m.Role),
			Content:       m.Content,
			TokenCount:    m.TokenCount,
			ModelProvider: m.ModelProvider,
			ModelUsed:     m.ModelUsed,
			Status:        string(m.Status),
			CreatedAt:     m.CreatedAt,
		}
	}
	return out, nil
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	maxTokens := c.Settings.MaxTokens
	temperature := c.Settings.Temperature
	return &dto.ConversationResponse{
		Id:           c.Id,
		Title:        c.Title,
		SystemPrompt: c.SystemPrompt,
		Settings: dto.SettingsDTO{
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
