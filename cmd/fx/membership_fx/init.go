package membership_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"rolevend/internal/api/controllers"
	"rolevend/internal/repositories"
	"rolevend/internal/services"
	"rolevend/pkg/chat"
)

var Module = fx.Provide(
	provideMembershipRepo, provideMembershipService, provideMembershipController)

func provideMembershipRepo(db *gorm.DB) repositories.MembershipRepository {
	return repositories.NewMembershipRepository(db)
}

func provideMembershipService(
	memberships repositories.MembershipRepository,
	plans repositories.PlanRepository,
	gateway chat.Gateway,
) services.MembershipService {
	return services.NewMembershipService(memberships, plans, gateway)
}

func provideMembershipController(memberships services.MembershipService) *controllers.MembershipController {
	return controllers.NewMembershipController(memberships)
}
