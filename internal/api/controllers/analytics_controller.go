package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
	"strconv"
	"rolevend/internal/services"
	"rolevend/pkg/utils"
)

type AnalyticsController struct {
	analytics services.AnalyticsService
	reports   services.ReportService
}

func NewAnalyticsController(analytics services.AnalyticsService, reports services.ReportService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics, reports: reports}
}

// GetGrowth godoc
// @Summary Revenue growth dashboard for a guild
// @Tags Analytics
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/analytics/growth [get]
func (ctl *AnalyticsController) GetGrowth(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	stats, err := ctl.analytics.Growth(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "Growth stats fetched")
}

// GetPlanBreakdown godoc
// @Summary Revenue breakdown per plan
// @Tags Analytics
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/analytics/plans [get]
func (ctl *AnalyticsController) GetPlanBreakdown(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	breakdown, err := ctl.analytics.PlanBreakdown(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, breakdown, "Plan breakdown fetched")
}

// GetTopMembers godoc
// @Summary Top spending members
// @Description Guild-wide by default; pass plan_id to rank within one plan (default top 3)
// @Tags Analytics
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Param plan_id query string false "Restrict to one plan"
// @Param limit query int false "Max rows (default 10, or 3 with plan_id)"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/analytics/top-members [get]
func (ctl *AnalyticsController) GetTopMembers(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	defaultLimit := "10"
	if c.Query("plan_id") != "" {
		defaultLimit = "3"
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", defaultLimit))
	if err != nil || limit < 1 || limit > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
		return
	}

	var members interface{}
	if raw := c.Query("plan_id"); raw != "" {
		planID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
			return
		}
		members, err = ctl.analytics.TopMembersByPlan(c.Request.Context(), guildID, planID, limit)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
	} else {
		members, err = ctl.analytics.TopMembers(c.Request.Context(), guildID, limit)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
	}
	utils.RespondSuccess(c, members, "Top members fetched")
}

// GetWeeklyReport godoc
// @Summary Build the weekly report for one guild on demand
// @Tags Analytics
// @Produce json
// @Param guild_id path string true "Guild ID"
// @Success 200 {object} utils.APIResponse
// @Router /guilds/{guild_id}/analytics/report [get]
func (ctl *AnalyticsController) GetWeeklyReport(c *gin.Context) {
	guildID, ok := guildScope(c)
	if !ok {
		return
	}

	report, err := ctl.reports.Build(c.Request.Context(), guildID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Weekly report built")
}

// GetOwnerStats godoc
// @Summary Fleet-wide statistics for the operator
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /owner/stats [get]
func (ctl *AnalyticsController) GetOwnerStats(c *gin.Context) {
	stats, err := ctl.analytics.Owner(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "Owner stats fetched")
}

// RunWeeklyReports godoc
// @Summary Trigger weekly report delivery immediately
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /owner/reports/run [post]
func (ctl *AnalyticsController) RunWeeklyReports(c *gin.Context) {
	if err := ctl.reports.SendAll(c.Request.Context()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Weekly reports sent")
}
