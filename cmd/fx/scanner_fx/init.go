package scanner_fx

import (
	"go.uber.org/fx"
	"rolevend/internal/repositories"
	"rolevend/internal/scanner"
	"rolevend/internal/services"
	"rolevend/pkg/chat"
)

var Module = fx.Provide(
	provideSweeper, provideScannerManager)

func provideSweeper(
	memberships repositories.MembershipRepository,
	subscriptions repositories.SubscriptionRepository,
	guilds repositories.GuildRepository,
	membership services.MembershipService,
	reports services.ReportService,
	gateway chat.Gateway,
) *scanner.Sweeper {
	return scanner.NewSweeper(memberships, subscriptions, guilds, membership, reports, gateway)
}

func provideScannerManager(sweeper *scanner.Sweeper) *scanner.Manager {
	return scanner.NewManager(sweeper, scanner.Intervals{})
}
