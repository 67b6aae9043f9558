package controller

import (
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetAdminStats godoc
// @Summary 管理端总览统计
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminDashboard}
// @Router /api/admin/dashboard/stats [get]
func (c *DashboardController) GetAdminStats(ctx *gin.Context) {
	overview, err := c.DashboardService.AdminOverview()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// GetActivity godoc
// @Summary 全站最近完成的作答
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "条数，默认 10"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/activity [get]
func (c *DashboardController) GetActivity(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	attempts, err := c.DashboardService.ActivityFeed(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts})
}

// GetUserStats godoc
// @Summary 用户端总览统计
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserDashboard}
// @Router /api/user/dashboard/stats [get]
func (c *DashboardController) GetUserStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.DashboardService.UserOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"stats": overview})
}

// GetRecentAttempts godoc
// @Summary 当前用户最近完成的作答
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/user/attempts/recent [get]
func (c *DashboardController) GetRecentAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.DashboardService.RecentAttempts(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts})
}
