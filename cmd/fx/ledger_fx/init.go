package ledger_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"rolevend/internal/api/controllers"
	"rolevend/internal/repositories"
	"rolevend/internal/services"
	"rolevend/pkg/chat"
	mem "rolevend/pkg/memcache"
)

var Module = fx.Provide(
	providePayoutRepo, provideLedgerService, provideLedgerController)

func providePayoutRepo(db *gorm.DB) repositories.PayoutRepository {
	return repositories.NewPayoutRepository(db)
}

func provideLedgerService(
	payouts repositories.PayoutRepository,
	analytics repositories.AnalyticsRepository,
	gateway chat.Gateway,
	locks *mem.KeyLocks,
) services.LedgerService {
	return services.NewLedgerService(payouts, analytics, gateway, locks)
}

func provideLedgerController(ledger services.LedgerService) *controllers.LedgerController {
	return controllers.NewLedgerController(ledger)
}
