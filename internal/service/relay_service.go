package service

import (
	"context"
	"strings"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/tokencount"

	"github.com/google/uuid"
)

// RelayEvent is one event of a relay turn as seen by the transport layer:
// any number of Delta events, then exactly one terminal event (Done or Err).
type RelayEvent struct {
	Delta string
	Done  bool
	Err   error
}

type IRelayService interface {
	// SendMessage validates the turn, persists the pending user message and
	// opens the provider stream. Validation and resolver failures are
	// returned synchronously, before any event is produced; the returned
	// channel then carries the streaming phase. Cancelling ctx while the
	// consumer is behind counts as a transport failure: the provider stream
	// is dropped and the pending message is cleaned up.
	SendMessage(ctx context.Context, userId, conversationId uuid.UUID, req *dto.SendMessageRequest) (<-chan RelayEvent, error)
}

type relayService struct {
	uowFactory unitofwork.RepositoryFactory
	resolver   IProviderResolver
	tokens     tokencount.Counter
	logger     logger.ILogger
}

func NewRelayService(
	uowFactory unitofwork.RepositoryFactory,
	resolver IProviderResolver,
	tokens tokencount.Counter,
	sysLogger logger.ILogger,
) IRelayService {
	return &relayService{
		uowFactory: uowFactory,
		resolver:   resolver,
		tokens:     tokens,
		logger:     sysLogger,
	}
}

func (s *relayService) SendMessage(ctx context.Context, userId, conversationId uuid.UUID, req *dto.SendMessageRequest) (<-chan RelayEvent, error) {
	if userId == uuid.Nil {
		return nil, apperror.Unauthenticated("authentication required")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.InvalidInput("content is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Ownership check loads the full row; filtering by user id keeps other
	// users' conversation ids indistinguishable from absent ones.
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

	if !llm.IsSupported(req.ModelProvider) {
		return nil, apperror.InvalidInput("unsupported provider")
	}

	// History ordering must match persisted created_at ordering exactly;
	// the new user turn goes last.
	history, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	pending := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           entity.MessageRoleUser,
		Content:        content,
		TokenCount:     s.tokens.Count(req.ModelName, content),
		Status:         entity.MessageStatusPending,
	}
	if err := uow.MessageRepository().Create(ctx, pending); err != nil {
		return nil, err
	}

	client, err := s.resolver.Resolve(ctx, userId, req.ModelProvider, req.BaseURL)
	if err != nil {
		s.compensate(ctx, pending.Id)
		if apperror.From(err) != nil {
			return nil, err
		}
		return nil, apperror.ProviderError("provider resolution failed").WithCause(err)
	}

	turn := relayTurn{
		conversation: conversation,
		pending:      pending,
		provider:     req.ModelProvider,
		model:        req.ModelName,
		messages:     buildHistory(history, content),
		options: llm.Options{
			Temperature: conversation.Settings.Temperature,
			MaxTokens:   conversation.Settings.MaxTokens,
		},
	}
	if conversation.SystemPrompt != nil {
		turn.options.System = *conversation.SystemPrompt
	}

	events := make(chan RelayEvent)
	go s.stream(ctx, client, turn, events)
	return events, nil
}

// relayTurn is the transient unit of work for one send: created at request
// entry, never shared across requests.
type relayTurn struct {
	conversation *entity.Conversation
	pending      *entity.Message
	provider     string
	model        string
	messages     []llm.Message
	options      llm.Options
}

func buildHistory(history []*entity.Message, newContent string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return append(messages, llm.Message{Role: "user", Content: newContent})
}

func (s *relayService) stream(ctx context.Context, client llm.StreamingProvider, turn relayTurn, events chan<- RelayEvent) {
	defer close(events)

	chunks, err := client.Stream(ctx, turn.model, turn.messages, turn.options)
	if err != nil {
		s.failTurn(ctx, turn, events, err, "opening provider stream failed")
		return
	}

	var output strings.Builder
	var streamErr error

consume:
	for chunk := range chunks {
		switch {
		case chunk.Err != nil:
			streamErr = chunk.Err
			break consume
		case chunk.Done:
			break consume
		case chunk.Delta == "":
			continue
		default:
			output.WriteString(chunk.Delta)
			select {
			case events <- RelayEvent{Delta: chunk.Delta}:
			case <-ctx.Done():
				// Client pipe broken. Stop consuming the provider stream
				// and clean up; there is nobody left to notify.
				s.compensate(ctx, turn.pending.Id)
				s.logger.Warn("relay", "turn aborted by transport failure", map[string]interface{}{
					"conversation_id": turn.conversation.Id.String(),
					"message_id":      turn.pending.Id.String(),
				})
				return
			}
		}
	}

	// A cancelled turn never finalizes, even when the provider stream closed
	// cleanly first: partial output with no reader is worthless.
	if ctx.Err() != nil {
		s.compensate(ctx, turn.pending.Id)
		s.logger.Warn("relay", "turn aborted by transport failure", map[string]interface{}{
			"conversation_id": turn.conversation.Id.String(),
			"message_id":      turn.pending.Id.String(),
		})
		return
	}

	if streamErr != nil {
		s.failTurn(ctx, turn, events, streamErr, "provider stream failed")
		return
	}
	// A normal finish with zero accumulated output is a failure: empty
	// assistant messages are never persisted.
	if output.Len() == 0 {
		s.failTurn(ctx, turn, events, nil, "provider stream yielded no output")
		return
	}

	if err := s.finalize(ctx, turn, output.String()); err != nil {
		s.failTurn(ctx, turn, events, err, "finalizing turn failed")
		return
	}

	select {
	case events <- RelayEvent{Done: true}:
	case <-ctx.Done():
	}
}

// finalize persists the turn outcome: assistant message created, pending
// user message promoted to processed, conversation touched. One transaction,
// strictly after full stream consumption.
func (s *relayService) finalize(ctx context.Context, turn relayTurn, output string) error {
	persistCtx := context.WithoutCancel(ctx)

	uow := s.uowFactory.NewUnitOfWork(persistCtx)
	if err := uow.Begin(persistCtx); err != nil {
		return err
	}
	defer uow.Rollback()

	provider := turn.provider
	model := turn.model
	assistant := &entity.Message{
		Id:             uuid.New(),
		ConversationId: turn.conversation.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        output,
		TokenCount:     s.tokens.Count(turn.model, output),
		ModelProvider:  &provider,
		ModelUsed:      &model,
		Status:         entity.MessageStatusProcessed,
	}
	if err := uow.MessageRepository().Create(persistCtx, assistant); err != nil {
		return err
	}

	turn.pending.Status = entity.MessageStatusProcessed
	turn.pending.Error = nil
	if err := uow.MessageRepository().Update(persistCtx, turn.pending); err != nil {
		return err
	}

	if err := uow.ConversationRepository().Touch(persistCtx, turn.conversation.Id); err != nil {
		return err
	}

	return uow.Commit()
}

// failTurn runs the generation-time failure path: compensating delete, then
// one terminal error event with a client-safe message. cause is logged,
// never forwarded.
func (s *relayService) failTurn(ctx context.Context, turn relayTurn, events chan<- RelayEvent, cause error, logMessage string) {
	s.compensate(ctx, turn.pending.Id)

	details := map[string]interface{}{
		"conversation_id": turn.conversation.Id.String(),
		"provider":        turn.provider,
		"model":           turn.model,
	}
	if cause != nil {
		details["error"] = cause.Error()
	}
	s.logger.Error("relay", logMessage, details)

	err := apperror.ProviderError("processing failed")
	if cause != nil {
		err = err.WithCause(cause)
	}
	select {
	case events <- RelayEvent{Err: err}:
	case <-ctx.Done():
	}
}

// compensate removes a speculatively-created pending message. Best effort:
// a failed delete is logged and never masks the error that triggered it.
func (s *relayService) compensate(ctx context.Context, messageId uuid.UUID) {
	cleanupCtx := context.WithoutCancel(ctx)
	uow := s.uowFactory.NewUnitOfWork(cleanupCtx)
	if err := uow.MessageRepository().Delete(cleanupCtx, messageId); err != nil {
		s.logger.Error("relay", "compensating delete failed", map[string]interface{}{
			"message_id": messageId.String(),
			"error":      err.Error(),
		})
	}
}
