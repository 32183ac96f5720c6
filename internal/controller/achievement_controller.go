package controller

import (
	"mlda_backend/internal/service"
	"mlda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// AwardRequest 后台手动发放成就
type AwardRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary 获取用户成就
// @Description 获取当前用户的徽章、经验值、等级和排行榜
// @Tags 成就系统
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserAchievements}
// @Router /api/achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetUserAchievements(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// @Summary 获取排行榜
// @Description 按经验值排序的用户排行榜
// @Tags 成就系统
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/achievements/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), c.AchievementService.LeaderboardSize)

	leaderboard, err := c.AchievementService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, leaderboard)
}

// @Summary 创建成就
// @Description 管理员新增成就定义，编码重复时返回 409
// @Tags 成就系统
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param achievement body service.CreateAchievementRequest true "成就信息"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Failure 409 {object} util.Response
// @Router /api/admin/achievements [post]
func (c *AchievementController) CreateAchievement(ctx *gin.Context) {
	var req service.CreateAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AchievementService.CreateAchievement(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, achievement)
}

// @Summary 发放成就
// @Description 给指定用户发放成就，重复发放返回 already_granted，未知编码返回 skipped
// @Tags 成就系统
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Param award body AwardRequest true "成就编码"
// @Success 200 {object} util.Response{data=service.AwardOutcome}
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{userId}/achievements [post]
func (c *AchievementController) AwardAchievement(ctx *gin.Context) {
	var req AwardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.AchievementService.AwardAchievementToUser(ctx.Request.Context(), ctx.Param("userId"), req.Code)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, outcome)
}
