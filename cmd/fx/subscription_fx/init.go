package subscription_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"rolevend/internal/api/controllers"
	"rolevend/internal/gateway/qpay"
	"rolevend/internal/repositories"
	"rolevend/internal/services"
	mem "rolevend/pkg/memcache"
)

var Module = fx.Provide(
	provideSubscriptionRepo, provideSubscriptionService, provideSubscriptionController)

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	subscriptions repositories.SubscriptionRepository,
	payouts repositories.PayoutRepository,
	analytics repositories.AnalyticsRepository,
	gateway qpay.Client,
	locks *mem.KeyLocks,
) services.SubscriptionService {
	return services.NewSubscriptionService(subscriptions, payouts, analytics, gateway, locks)
}

func provideSubscriptionController(subscriptions services.SubscriptionService) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptions)
}
