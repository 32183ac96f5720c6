package controller

import (
	"mlda_backend/internal/service"
	"mlda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitAttemptRequest 客户端提交的答案，额外字段（例如 isCorrect）会被忽略
type SubmitAttemptRequest struct {
	Answers          []service.SubmittedAnswer `json:"answers" binding:"dive"`
	TimeSpentSeconds int                       `json:"timeSpentSeconds"`
}

// @Summary 提交测验
// @Description 服务端判分并保存作答记录，满分时发放成就
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Param attempt body SubmitAttemptRequest true "作答"
// @Success 201 {object} util.Response{data=service.AttemptResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAttempt(ctx.Request.Context(), user.UserID, ctx.Param("quizId"), req.Answers, req.TimeSpentSeconds)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 作答历史
// @Description 当前学生在该测验上的所有作答，最新的在前
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/{quizId}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.QuizService.ListAttempts(ctx.Request.Context(), user.UserID, ctx.Param("quizId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
