package controllers

import (
	"github.com/gin-gonic/gin"
	"rolevend/internal/models/request_models"
	"rolevend/internal/models/response_models"
	"rolevend/internal/services"
	"rolevend/pkg/utils"
	"net/http"
)

type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListPlans godoc
// @Summary List a guild's role plans
// @Description Active plans only unless all=true
// @Tags Catalog
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param all query bool false "Include inactive plans"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/plans [get]
func (ctl *CatalogController) ListPlans(c *gin.Context) {
	guildID := c.Param("guild_id")
	if guildID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing guild id")
		return
	}

	includeInactive := c.Query("all") == "true"
	plans, err := ctl.catalog.ListPlans(c.Request.Context(), guildID, includeInactive)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPlans(plans), "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Get one plan
// @Tags Catalog
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param plan_id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/plans/{plan_id} [get]
func (ctl *CatalogController) GetPlan(c *gin.Context) {
	guildID := c.Param("guild_id")
	planID, ok := parseID(c, "plan_id")
	if !ok {
		return
	}

	plan, err := ctl.catalog.GetPlan(c.Request.Context(), guildID, planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPlan(plan), "Plan fetched successfully")
}

// CreatePlan godoc
// @Summary Create a role plan
// @Tags Catalog
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param body body request_models.CreatePlanRequest true "Plan"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/plans [post]
func (ctl *CatalogController) CreatePlan(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := ctl.catalog.CreatePlan(c.Request.Context(), guildID, services.PlanInput{
		RoleID:       req.RoleID,
		Name:         req.Name,
		PriceMNT:     req.PriceMNT,
		DurationDays: req.DurationDays,
		Description:  req.Description,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPlan(plan), "Plan created successfully")
}

// UpdatePlan godoc
// @Summary Update a role plan
// @Tags Catalog
// @Accept json
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param plan_id path string true "Plan ID"
// @Param body body request_models.UpdatePlanRequest true "Plan"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/plans/{plan_id} [put]
func (ctl *CatalogController) UpdatePlan(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}
	planID, ok := parseID(c, "plan_id")
	if !ok {
		return
	}

	var req request_models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := ctl.catalog.UpdatePlan(c.Request.Context(), guildID, planID, services.PlanInput{
		RoleID:       req.RoleID,
		Name:         req.Name,
		PriceMNT:     req.PriceMNT,
		DurationDays: req.DurationDays,
		Description:  req.Description,
	}, req.Active)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.FromPlan(plan), "Plan updated successfully")
}

// DeletePlan godoc
// @Summary Soft-delete a role plan
// @Tags Catalog
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param plan_id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/plans/{plan_id} [delete]
func (ctl *CatalogController) DeletePlan(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}
	planID, ok := parseID(c, "plan_id")
	if !ok {
		return
	}

	if err := ctl.catalog.DeletePlan(c.Request.Context(), guildID, planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}
