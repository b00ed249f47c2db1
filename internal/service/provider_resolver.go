package service

import (
	"context"

	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/factory"

	"github.com/google/uuid"

	appcrypto "ai-chat-be/internal/pkg/crypto"
)

type IProviderResolver interface {
	// Resolve builds a streaming client for one turn. The decrypted API key
	// lives only inside the returned client; it is never logged or cached.
	Resolve(ctx context.Context, userId uuid.UUID, providerName, overrideBaseURL string) (llm.StreamingProvider, error)
}

type providerResolver struct {
	uowFactory unitofwork.RepositoryFactory
	cipher     appcrypto.Cipher

	// newClient is factory.New; swappable in tests.
	newClient func(name string, cfg llm.ClientConfig) (llm.StreamingProvider, error)
}

func NewProviderResolver(uowFactory unitofwork.RepositoryFactory, cipher appcrypto.Cipher) IProviderResolver {
	return &providerResolver{
		uowFactory: uowFactory,
		cipher:     cipher,
		newClient:  factory.New,
	}
}

func (s *providerResolver) Resolve(ctx context.Context, userId uuid.UUID, providerName, overrideBaseURL string) (llm.StreamingProvider, error) {
	def, ok := llm.Lookup(providerName)
	if !ok {
		// Fails before any credential lookup.
		return nil, apperror.InvalidInput("unsupported provider")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.ProviderConfigRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByProvider{Provider: providerName},
	)
	if err != nil {
		return nil, err
	}

	apiKey := ""
	if !def.Keyless {
		if config == nil || config.EncryptedKey == nil {
			return nil, apperror.ProviderError("no credential configured for provider")
		}
		apiKey, err = s.cipher.Decrypt(*config.EncryptedKey)
		if err != nil {
			// A corrupt envelope or wrong master key is not "no key"; it
			// has to surface as its own failure.
			return nil, apperror.DecryptionError("credential decryption failed").WithCause(err)
		}
	}

	// Base URL precedence: explicit override > stored > compiled-in default.
	baseURL := def.DefaultBaseURL
	if config != nil && config.BaseURL != nil && *config.BaseURL != "" {
		baseURL = *config.BaseURL
	}
	if overrideBaseURL != "" {
		baseURL = overrideBaseURL
	}

	client, err := s.newClient(providerName, llm.ClientConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, apperror.ProviderError("provider client initialization failed").WithCause(err)
	}
	return client, nil
}
