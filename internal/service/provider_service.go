package service

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"

	appcrypto "ai-chat-be/internal/pkg/crypto"
)

type IProviderService interface {
	List(ctx context.Context, userId uuid.UUID) ([]dto.ProviderConfigResponse, error)
	Upsert(ctx context.Context, userId uuid.UUID, req *dto.UpsertProviderConfigRequest) (*dto.ProviderConfigResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, provider string) error
	Models(ctx context.Context, userId uuid.UUID) ([]dto.ProviderModelsResponse, error)
}

type providerService struct {
	uowFactory unitofwork.RepositoryFactory
	cipher     appcrypto.Cipher
}

func NewProviderService(uowFactory unitofwork.RepositoryFactory, cipher appcrypto.Cipher) IProviderService {
	return &providerService{
		uowFactory: uowFactory,
		cipher:     cipher,
	}
}

func (s *providerService) List(ctx context.Context, userId uuid.UUID) ([]dto.ProviderConfigResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	configs, err := uow.ProviderConfigRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "provider"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProviderConfigResponse, len(configs))
	for i, c := range configs {
		out[i] = toProviderConfigResponse(c)
	}
	return out, nil
}

func (s *providerService) Upsert(ctx context.Context, userId uuid.UUID, req *dto.UpsertProviderConfigRequest) (*dto.ProviderConfigResponse, error) {
	if !llm.IsSupported(req.Provider) {
		return nil, apperror.InvalidInput("unsupported provider")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ProviderConfigRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByProvider{Provider: req.Provider},
	)
	if err != nil {
		return nil, err
	}

	config := existing
	if config == nil {
		config = &entity.ProviderConfig{
			Id:        uuid.New(),
			UserId:    userId,
			Provider:  req.Provider,
			CreatedAt: time.Now(),
		}
	}
	config.UpdatedAt = time.Now()

	if req.ApiKey != nil && *req.ApiKey != "" {
		encrypted, err := s.cipher.Encrypt(*req.ApiKey)
		if err != nil {
			return nil, err
		}
		config.EncryptedKey = &encrypted
	}
	if req.BaseURL != nil {
		if *req.BaseURL == "" {
			config.BaseURL = nil
		} else {
			config.BaseURL = req.BaseURL
		}
	}

	makeDefault := req.IsDefault != nil && *req.IsDefault

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if makeDefault {
		// Last-writer-wins: clear the flag everywhere, then set it here.
		if err := uow.ProviderConfigRepository().ClearDefaults(ctx, userId); err != nil {
			return nil, err
		}
		config.IsDefault = true
	} else if req.IsDefault != nil {
		config.IsDefault = false
	}

	if err := uow.ProviderConfigRepository().Save(ctx, config); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	resp := toProviderConfigResponse(config)
	return &resp, nil
}

func (s *providerService) Delete(ctx context.Context, userId uuid.UUID, provider string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	config, err := uow.ProviderConfigRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByProvider{Provider: provider},
	)
	if err != nil {
		return err
	}
	if config == nil {
		return apperror.NotFound("provider config not found")
	}

	return uow.ProviderConfigRepository().Delete(ctx, config.Id)
}

// Models merges the builtin catalog with the user's configured providers.
func (s *providerService) Models(ctx context.Context, userId uuid.UUID) ([]dto.ProviderModelsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	configs, err := uow.ProviderConfigRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	configured := make(map[string]bool, len(configs))
	for _, c := range configs {
		configured[c.Provider] = c.EncryptedKey != nil
	}

	out := make([]dto.ProviderModelsResponse, 0, len(llm.Supported()))
	for _, name := range llm.Supported() {
		def, _ := llm.Lookup(name)
		out = append(out, dto.ProviderModelsResponse{
			Provider:   name,
			Keyless:    def.Keyless,
			Configured: def.Keyless || configured[name],
			Models:     def.Models,
		})
	}
	return out, nil
}

func toProviderConfigResponse(c *entity.ProviderConfig) dto.ProviderConfigResponse {
	return dto.ProviderConfigResponse{
		Provider:  c.Provider,
		BaseURL:   c.BaseURL,
		IsDefault: c.IsDefault,
		HasKey:    c.EncryptedKey != nil,
	}
}
