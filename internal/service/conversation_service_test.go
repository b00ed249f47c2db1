package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateConversationDefaults(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory)

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if res.Title != "New conversation" {
		t.Errorf("title = %q", res.Title)
	}
	if *res.Settings.MaxTokens != entity.DefaultMaxTokens {
		t.Errorf("max tokens = %d, want %d", *res.Settings.MaxTokens, entity.DefaultMaxTokens)
	}
	if *res.Settings.Temperature != entity.DefaultTemperature {
		t.Errorf("temperature = %v, want %v", *res.Settings.Temperature, entity.DefaultTemperature)
	}
}

func TestCreateConversationClampsSettings(t *testing.T) {
	tests := []struct {
		name            string
		maxTokens       *int
		temperature     *float64
		wantMaxTokens   int
		wantTemperature float64
	}{
		{"within range", intPtr(2048), floatPtr(0.5), 2048, 0.5},
		{"max tokens too low", intPtr(-5), floatPtr(1.0), entity.MinMaxTokens, 1.0},
		{"max tokens too high", intPtr(999999), floatPtr(1.0), entity.MaxMaxTokens, 1.0},
		{"temperature too low", intPtr(100), floatPtr(-1.0), 100, entity.MinTemperature},
		{"temperature too high", intPtr(100), floatPtr(9.9), 100, entity.MaxTemperature},
		{"zero max tokens takes default", intPtr(0), floatPtr(1.0), entity.DefaultMaxTokens, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := newFakeFactory()
			svc := NewConversationService(factory)

			res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{
				Settings: &dto.SettingsDTO{MaxTokens: tt.maxTokens, Temperature: tt.temperature},
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if *res.Settings.MaxTokens != tt.wantMaxTokens {
				t.Errorf("max tokens = %d, want %d", *res.Settings.MaxTokens, tt.wantMaxTokens)
			}
			if *res.Settings.Temperature != tt.wantTemperature {
				t.Errorf("temperature = %v, want %v", *res.Settings.Temperature, tt.wantTemperature)
			}
		})
	}
}

func TestGetConversationOwnership(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory)
	owner := uuid.New()
	conversation := seedConversation(factory, owner)

	if _, err := svc.Get(context.Background(), owner, conversation.Id); err != nil {
		t.Errorf("owner Get: %v", err)
	}

	_, err := svc.Get(context.Background(), uuid.New(), conversation.Id)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("foreign Get error = %v, want not found", err)
	}

	_, err = svc.Get(context.Background(), owner, uuid.New())
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("absent Get error = %v, want not found", err)
	}
}

func TestRenameConversation(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory)
	owner := uuid.New()
	conversation := seedConversation(factory, owner)

	res, err := svc.Rename(context.Background(), owner, conversation.Id, &dto.RenameConversationRequest{Title: "renamed"})
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if res.Title != "renamed" {
		t.Errorf("title = %q", res.Title)
	}

	_, err = svc.Rename(context.Background(), uuid.New(), conversation.Id, &dto.RenameConversationRequest{Title: "x"})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("foreign Rename error = %v, want not found", err)
	}
}

func TestDeleteConversationRemovesMessages(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory)
	owner := uuid.New()
	conversation := seedConversation(factory, owner)
	other := seedConversation(factory, owner)

	seedMessage(factory, conversation.Id, entity.MessageRoleUser, "a")
	seedMessage(factory, conversation.Id, entity.MessageRoleAssistant, "b")
	seedMessage(factory, other.Id, entity.MessageRoleUser, "keep")

	if err := svc.Delete(context.Background(), owner, conversation.Id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	factory.store.mu.Lock()
	defer factory.store.mu.Unlock()
	if _, ok := factory.store.conversations[conversation.Id]; ok {
		t.Error("conversation row still present")
	}
	for _, m := range factory.store.messages {
		if m.ConversationId == conversation.Id {
			t.Errorf("orphaned message %q", m.Content)
		}
	}
	if len(factory.store.messages) != 1 {
		t.Errorf("surviving messages = %d, want 1", len(factory.store.messages))
	}
}

func TestListMessagesOrdered(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory)
	owner := uuid.New()
	conversation := seedConversation(factory, owner)

	seedMessage(factory, conversation.Id, entity.MessageRoleUser, "t1")
	seedMessage(factory, conversation.Id, entity.MessageRoleAssistant, "t2")
	seedMessage(factory, conversation.Id, entity.MessageRoleUser, "t3")

	messages, err := svc.ListMessages(context.Background(), owner, conversation.Id)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}

	want := []string{"t1", "t2", "t3"}
	if len(messages) != len(want) {
		t.Fatalf("message count = %d, want %d", len(messages), len(want))
	}
	for i, w := range want {
		if messages[i].Content != w {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i].Content, w)
		}
	}

	_, err = svc.ListMessages(context.Background(), uuid.New(), conversation.Id)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("foreign ListMessages error = %v, want not found", err)
	}
}
