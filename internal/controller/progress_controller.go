package controller

import (
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/service"
	"mlda_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService   *service.ProgressService
	EnrollmentService *service.EnrollmentService
}

func NewProgressController(progressService *service.ProgressService, enrollmentService *service.EnrollmentService) *ProgressController {
	return &ProgressController{
		ProgressService:   progressService,
		EnrollmentService: enrollmentService,
	}
}

type LessonProgressRequest struct {
	Completed      bool `json:"completed"`
	TimeSpentDelta int  `json:"timeSpentDelta" binding:"min=0"`
}

type CourseProgressResponse struct {
	CourseID        string               `json:"courseId"`
	Enrolled        bool                 `json:"enrolled"`
	ProgressPercent float64              `json:"progressPercent"`
	CompletedAt     *time.Time           `json:"completedAt,omitempty"`
	Lessons         []model.LessonStatus `json:"lessons"`
}

type EnrollResponse struct {
	Result     service.EnrollResult `json:"result"`
	Enrollment *model.Enrollment    `json:"enrollment"`
}

// @Summary 选课
// @Description 当前学生加入课程，重复调用返回 already_enrolled
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=EnrollResponse}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/enroll [post]
func (c *ProgressController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), user.UserID, ctx.Param("courseId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	resp := EnrollResponse{Result: result, Enrollment: enrollment}
	if result == service.Enrolled {
		util.Created(ctx, resp)
		return
	}
	util.Success(ctx, resp)
}

// @Summary 获取课程进度
// @Description 返回课程全部课时的完成情况和选课记录上的完成度
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=CourseProgressResponse}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := ctx.Param("courseId")

	lessons, err := c.ProgressService.GetCourseProgress(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	resp := CourseProgressResponse{CourseID: courseID, Lessons: lessons}
	enrollment, err := c.ProgressService.GetEnrollmentProgress(ctx.Request.Context(), user.UserID, courseID)
	switch {
	case err == nil:
		resp.Enrolled = true
		resp.ProgressPercent = enrollment.ProgressPercent
		resp.CompletedAt = enrollment.CompletedAt
	case errors.Is(err, util.ErrEnrollmentNotFound):
		// 未选课时只返回课时列表
	default:
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// @Summary 更新课时进度
// @Description 记录课时完成状态并累加学习时长，课程全部完成时自动发放成就
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "课时ID"
// @Param progress body LessonProgressRequest true "进度"
// @Success 200 {object} util.Response{data=service.LessonProgressResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "未选课"
// @Router /api/lessons/{lessonId}/progress [post]
func (c *ProgressController) RecordLessonProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.RecordLessonProgress(ctx.Request.Context(), user.UserID, ctx.Param("lessonId"), req.Completed, req.TimeSpentDelta)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
