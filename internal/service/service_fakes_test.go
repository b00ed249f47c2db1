package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// memoryStore backs the fake repositories. One store per test; all
// repositories share it so cross-repository effects are visible.
type memoryStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	conversations map[uuid.UUID]*entity.Conversation
	messages      map[uuid.UUID]*entity.Message
	configs       map[uuid.UUID]*entity.ProviderConfig

	clock   time.Time
	touched map[uuid.UUID]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[uuid.UUID]*entity.User),
		conversations: make(map[uuid.UUID]*entity.Conversation),
		messages:      make(map[uuid.UUID]*entity.Message),
		configs:       make(map[uuid.UUID]*entity.ProviderConfig),
		clock:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		touched:       make(map[uuid.UUID]int),
	}
}

// tick returns a strictly increasing timestamp so created_at ordering is
// deterministic.
func (s *memoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memoryStore) pendingMessages() []*entity.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Message
	for _, m := range s.messages {
		if m.Status == entity.MessageStatusPending {
			out = append(out, m)
		}
	}
	return out
}

func (s *memoryStore) messagesByRole(role entity.MessageRole) []*entity.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Message
	for _, m := range s.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// matchCriteria is the interpreted form of a specification list.
type matchCriteria struct {
	id             *uuid.UUID
	userId         *uuid.UUID
	conversationId *uuid.UUID
	provider       *string
	email          *string
	orderField     string
	orderDesc      bool
}

func interpretSpecs(specs []specification.Specification) matchCriteria {
	var c matchCriteria
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			c.id = &id
		case specification.UserOwnedBy:
			id := s.UserID
			c.userId = &id
		case specification.ByConversationID:
			id := s.ConversationID
			c.conversationId = &id
		case specification.ByProvider:
			p := s.Provider
			c.provider = &p
		case specification.ByEmail:
			e := s.Email
			c.email = &e
		case specification.OrderBy:
			c.orderField = s.Field
			c.orderDesc = s.Desc
		}
	}
	return c
}

// fakeRepositoryFactory hands out units of work over a shared store.
type fakeRepositoryFactory struct {
	store *memoryStore
}

func newFakeFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{store: newMemoryStore()}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *memoryStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepository{store: u.store}
}

func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepository{store: u.store}
}

func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepository{store: u.store}
}

func (u *fakeUnitOfWork) ProviderConfigRepository() contract.ProviderConfigRepository {
	return &fakeProviderConfigRepository{store: u.store}
}

type fakeUserRepository struct {
	store *memoryStore
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *user
	r.store.users[user.Id] = &clone
	return nil
}

func (r *fakeUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if c.id != nil && u.Id != *c.id {
			continue
		}
		if c.email != nil && u.Email != *c.email {
			continue
		}
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

type fakeConversationRepository struct {
	store *memoryStore
}

func (r *fakeConversationRepository) matches(c matchCriteria, conv *entity.Conversation) bool {
	if c.id != nil && conv.Id != *c.id {
		return false
	}
	if c.userId != nil && conv.UserId != *c.userId {
		return false
	}
	return true
}

func (r *fakeConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *conversation
	r.store.conversations[conversation.Id] = &clone
	return nil
}

func (r *fakeConversationRepository) Update(ctx context.Context, conversation *entity.Conversation) error {
	return r.Create(ctx, conversation)
}

func (r *fakeConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.conversations, id)
	return nil
}

func (r *fakeConversationRepository) Touch(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if conv, ok := r.store.conversations[id]; ok {
		conv.UpdatedAt = r.store.tick()
	}
	r.store.touched[id]++
	return nil
}

func (r *fakeConversationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, conv := range r.store.conversations {
		if r.matches(c, conv) {
			clone := *conv
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Conversation
	for _, conv := range r.store.conversations {
		if r.matches(c, conv) {
			clone := *conv
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c.orderDesc {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type fakeMessageRepository struct {
	store *memoryStore
}

func (r *fakeMessageRepository) matches(c matchCriteria, m *entity.Message) bool {
	if c.id != nil && m.Id != *c.id {
		return false
	}
	if c.conversationId != nil && m.ConversationId != *c.conversationId {
		return false
	}
	return true
}

func (r *fakeMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *message
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.store.tick()
		message.CreatedAt = clone.CreatedAt
	}
	r.store.messages[message.Id] = &clone
	return nil
}

func (r *fakeMessageRepository) Update(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *message
	r.store.messages[message.Id] = &clone
	return nil
}

func (r *fakeMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.messages, id)
	return nil
}

func (r *fakeMessageRepository) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, m := range r.store.messages {
		if m.ConversationId == conversationId {
			delete(r.store.messages, id)
		}
	}
	return nil
}

func (r *fakeMessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.messages {
		if r.matches(c, m) {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.store.messages {
		if r.matches(c, m) {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

type fakeProviderConfigRepository struct {
	store *memoryStore
}

func (r *fakeProviderConfigRepository) matches(c matchCriteria, cfg *entity.ProviderConfig) bool {
	if c.id != nil && cfg.Id != *c.id {
		return false
	}
	if c.userId != nil && cfg.UserId != *c.userId {
		return false
	}
	if c.provider != nil && cfg.Provider != *c.provider {
		return false
	}
	return true
}

func (r *fakeProviderConfigRepository) Save(ctx context.Context, config *entity.ProviderConfig) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *config
	r.store.configs[config.Id] = &clone
	return nil
}

func (r *fakeProviderConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.configs, id)
	return nil
}

func (r *fakeProviderConfigRepository) ClearDefaults(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, cfg := range r.store.configs {
		if cfg.UserId == userId {
			cfg.IsDefault = false
		}
	}
	return nil
}

func (r *fakeProviderConfigRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderConfig, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, cfg := range r.store.configs {
		if r.matches(c, cfg) {
			clone := *cfg
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProviderConfigRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error) {
	c := interpretSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ProviderConfig
	for _, cfg := range r.store.configs {
		if r.matches(c, cfg) {
			clone := *cfg
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}

// scriptedProvider replays a fixed chunk sequence and records what the
// engine asked for. Delivery respects ctx so an abandoned consumer is
// observable through delivered/stopped.
type scriptedProvider struct {
	chunks  []llm.StreamChunk
	openErr error

	mu        sync.Mutex
	model     string
	history   []llm.Message
	opts      llm.Options
	delivered int
	stopped   bool
}

func (p *scriptedProvider) Stream(ctx context.Context, model string, history []llm.Message, opts llm.Options) (<-chan llm.StreamChunk, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}

	p.mu.Lock()
	p.model = model
	p.history = append([]llm.Message(nil), history...)
	p.opts = opts
	p.mu.Unlock()

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		for _, chunk := range p.chunks {
			select {
			case out <- chunk:
				p.mu.Lock()
				p.delivered++
				p.mu.Unlock()
			case <-ctx.Done():
				p.mu.Lock()
				p.stopped = true
				p.mu.Unlock()
				return
			}
		}
	}()
	return out, nil
}

func (p *scriptedProvider) snapshot() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delivered, p.stopped
}

// fakeResolver hands back a canned provider or error regardless of user.
type fakeResolver struct {
	provider llm.StreamingProvider
	err      error

	mu       sync.Mutex
	requests []string
}

func (r *fakeResolver) Resolve(ctx context.Context, userId uuid.UUID, providerName, overrideBaseURL string) (llm.StreamingProvider, error) {
	r.mu.Lock()
	r.requests = append(r.requests, providerName)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.provider, nil
}

// fixedCounter counts one token per character, which keeps assertions easy.
type fixedCounter struct{}

func (fixedCounter) Count(model, text string) int { return len(text) }

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }
