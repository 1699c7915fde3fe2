package guild_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"rolevend/internal/api/controllers"
	"rolevend/internal/repositories"
)

var Module = fx.Provide(
	provideGuildRepo, provideGuildController, provideAuthController)

func provideGuildRepo(db *gorm.DB) repositories.GuildRepository {
	return repositories.NewGuildRepository(db)
}

func provideGuildController(guilds repositories.GuildRepository) *controllers.GuildController {
	return controllers.NewGuildController(guilds)
}

func provideAuthController() *controllers.AuthController {
	return controllers.NewAuthController()
}
