package catalog_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"rolevend/internal/api/controllers"
	"rolevend/internal/repositories"
	"rolevend/internal/services"
)

var Module = fx.Provide(
	providePlanRepo, provideCatalogService, provideCatalogController)

func providePlanRepo(db *gorm.DB) repositories.PlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideCatalogService(plans repositories.PlanRepository) services.CatalogService {
	return services.NewCatalogService(plans)
}

func provideCatalogController(catalog services.CatalogService) *controllers.CatalogController {
	return controllers.NewCatalogController(catalog)
}
