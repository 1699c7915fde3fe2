package payment_fx

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
	providePaymentRepo, providePaymentService, providePaymentController)

func providePaymentRepo(db *gorm.DB) repositories.PaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func providePaymentService(
	payments repositories.PaymentRepository,
	guilds repositories.GuildRepository,
	catalog services.CatalogService,
	memberships services.MembershipService,
	subscriptions services.SubscriptionService,
	gateway qpay.Client,
	locks *mem.KeyLocks,
) services.PaymentService {
	return services.NewPaymentService(payments, guilds, catalog, memberships, subscriptions, gateway, locks)
}

func providePaymentController(payments services.PaymentService) *controllers.PaymentController {
	return controllers.NewPaymentController(payments)
}
