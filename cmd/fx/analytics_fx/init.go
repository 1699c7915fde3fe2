package analytics_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"rolevend/internal/api/controllers"
	"rolevend/internal/repositories"
	"rolevend/internal/services"
	"rolevend/pkg/chat"
)

var Module = fx.Provide(
	provideAnalyticsRepo, provideAnalyticsService, provideReportService, provideAnalyticsController)

func provideAnalyticsRepo(db *gorm.DB) repositories.AnalyticsRepository {
	return repositories.NewAnalyticsRepository(db)
}

func provideAnalyticsService(
	analytics repositories.AnalyticsRepository,
	payouts repositories.PayoutRepository,
	memberships repositories.MembershipRepository,
) services.AnalyticsService {
	return services.NewAnalyticsService(analytics, payouts, memberships)
}

func provideReportService(
	subscriptions repositories.SubscriptionRepository,
	payouts repositories.PayoutRepository,
	analytics repositories.AnalyticsRepository,
	plans repositories.PlanRepository,
	guilds repositories.GuildRepository,
	advisor services.AdvisorService,
	gateway chat.Gateway,
) services.ReportService {
	return services.NewReportService(subscriptions, payouts, analytics, plans, guilds, advisor, gateway)
}

func provideAnalyticsController(analytics services.AnalyticsService, reports services.ReportService) *controllers.AnalyticsController {
	return controllers.NewAnalyticsController(analytics, reports)
}
