package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"rolevend/cmd/fx/analytics_fx"
	"rolevend/cmd/fx/catalog_fx"
	"rolevend/cmd/fx/db_fx"
	"rolevend/cmd/fx/gateway_fx"
	"rolevend/cmd/fx/guild_fx"
	"rolevend/cmd/fx/ledger_fx"
	"rolevend/cmd/fx/membership_fx"
	"rolevend/cmd/fx/memcache_fx"
	"rolevend/cmd/fx/payment_fx"
	"rolevend/cmd/fx/scanner_fx"
	"rolevend/cmd/fx/subscription_fx"
	"rolevend/internal/api/controllers"
	"rolevend/internal/scanner"
	"rolevend/pkg/middleware"
	"rolevend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		memcache_fx.Module,
		gateway_fx.Module,
		guild_fx.Module,
		catalog_fx.Module,
		membership_fx.Module,
		subscription_fx.Module,
		payment_fx.Module,
		ledger_fx.Module,
		analytics_fx.Module,
		scanner_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartScanner),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartScanner(lc fx.Lifecycle, manager *scanner.Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			manager.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			manager.Stop()
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	catalogController *controllers.CatalogController,
	paymentController *controllers.PaymentController,
	membershipController *controllers.MembershipController,
	subscriptionController *controllers.SubscriptionController,
	ledgerController *controllers.LedgerController,
	analyticsController *controllers.AnalyticsController,
	guildController *controllers.GuildController,
	authController *controllers.AuthController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, catalogController, paymentController, membershipController,
		subscriptionController, ledgerController, analyticsController,
		guildController, authController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	catalogController *controllers.CatalogController,
	paymentController *controllers.PaymentController,
	membershipController *controllers.MembershipController,
	subscriptionController *controllers.SubscriptionController,
	ledgerController *controllers.LedgerController,
	analyticsController *controllers.AnalyticsController,
	guildController *controllers.GuildController,
	authController *controllers.AuthController) {

	// Public surface: what a storefront or bot frontend needs without a token.
	r.POST("/auth/token", authController.IssueToken)
	r.GET("/subscriptions/tiers", subscriptionController.ListTiers)
	r.GET("/guilds/:guild_id/plans", catalogController.ListPlans)
	r.GET("/guilds/:guild_id/plans/:plan_id", catalogController.GetPlan)
	r.POST("/guilds/:guild_id/purchases", paymentController.CreatePurchase)
	r.GET("/guilds/:guild_id/purchases/pending", paymentController.ListPendingPurchases)
	r.POST("/guilds/:guild_id/purchases/verify-latest", paymentController.VerifyLatestPurchase)
	r.GET("/guilds/:guild_id/members/:user_id/memberships", membershipController.ListUserMemberships)
	r.GET("/purchases/:invoice_id", paymentController.GetPurchase)
	r.POST("/purchases/:invoice_id/check", paymentController.CheckPurchase)
	r.GET("/purchases/:invoice_id/qr", paymentController.GetPurchaseQR)

	// Catalog mutation: the guild's manager role may curate plans, but
	// gets nowhere near money.
	catalog := r.Group("/guilds/:guild_id")
	catalog.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware(utils.RoleAdmin, utils.RoleManager))
	{
		catalog.POST("/plans", catalogController.CreatePlan)
		catalog.PUT("/plans/:plan_id", catalogController.UpdatePlan)
		catalog.DELETE("/plans/:plan_id", catalogController.DeletePlan)
	}

	// Guild admin surface.
	admin := r.Group("/guilds/:guild_id")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware(utils.RoleAdmin))
	{
		admin.GET("/memberships", membershipController.ListGuildMemberships)
		admin.DELETE("/memberships/:user_id/:plan_id", membershipController.RevokeMembership)

		admin.GET("/subscription", subscriptionController.GetSubscription)
		admin.POST("/subscription", subscriptionController.StartSubscription)
		admin.POST("/subscription/check", subscriptionController.CheckSubscription)
		admin.POST("/subscription/renew", subscriptionController.RenewWithBalance)

		admin.GET("/balance", ledgerController.GetBalance)
		admin.POST("/payouts", ledgerController.RequestPayout)
		admin.GET("/payouts", ledgerController.ListPayouts)

		admin.GET("/analytics/growth", analyticsController.GetGrowth)
		admin.GET("/analytics/plans", analyticsController.GetPlanBreakdown)
		admin.GET("/analytics/top-members", analyticsController.GetTopMembers)
		admin.GET("/analytics/report", analyticsController.GetWeeklyReport)

		admin.GET("/manager-role", guildController.GetManagerRole)
		admin.PUT("/manager-role", guildController.SetManagerRole)
		admin.DELETE("/manager-role", guildController.ClearManagerRole)
		admin.PUT("/sales-channel", guildController.SetSalesChannel)
	}

	// Operator surface.
	owner := r.Group("/owner")
	owner.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware(utils.RoleOwner))
	{
		owner.GET("/stats", analyticsController.GetOwnerStats)
		owner.GET("/payouts/pending", ledgerController.ListPendingPayouts)
		owner.POST("/payouts/:payout_id/done", ledgerController.MarkPayoutDone)
		owner.POST("/reports/run", analyticsController.RunWeeklyReports)
	}
}
