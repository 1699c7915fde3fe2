package gateway_fx

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"
	"rolevend/internal/gateway/qpay"
	"rolevend/internal/services"
	"rolevend/pkg/chat"
)

var Module = fx.Provide(
	provideQPayClient, provideChatGateway, provideAdvisor)

func provideQPayClient() qpay.Client {
	client, err := qpay.NewClient(qpay.ConfigFromEnv())
	if err != nil {
		log.Fatalf("qpay client init: %v", err)
	}
	return client
}

func provideChatGateway() chat.Gateway {
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		log.Println("DISCORD_BOT_TOKEN not set, chat side effects are log-only")
		return chat.NewNoop()
	}
	return chat.NewDiscord(token)
}

func provideAdvisor() services.AdvisorService {
	switch os.Getenv("ADVISOR_PROVIDER") {
	case "gemini":
		advisor, err := services.NewGeminiAdvisor(context.Background())
		if err != nil {
			log.Printf("gemini advisor init failed, using canned advice: %v", err)
			return services.NewStaticAdvisor()
		}
		return advisor
	case "", "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return services.NewStaticAdvisor()
		}
		return services.NewOpenAIAdvisor()
	default:
		return services.NewStaticAdvisor()
	}
}
