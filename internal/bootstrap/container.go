package bootstrap

import (
	"log"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	appcrypto "ai-chat-be/internal/pkg/crypto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/tokencount"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	ProviderController controller.IProviderController
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	cipher, err := appcrypto.NewCipher(cfg.Crypto.MasterKey)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize credential cipher: %v", err)
	}

	tokenCounter := tokencount.NewCounter()

	// 2. Services
	authService := service.NewAuthService(uowFactory, cfg.Auth.JWTSecret)
	conversationService := service.NewConversationService(uowFactory)
	providerService := service.NewProviderService(uowFactory, cipher)

	providerResolver := service.NewProviderResolver(uowFactory, cipher)
	relayService := service.NewRelayService(uowFactory, providerResolver, tokenCounter, sysLogger)

	// 3. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(conversationService, relayService),
		ProviderController: controller.NewProviderController(providerService),
	}
}
