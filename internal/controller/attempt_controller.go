package controller

import (
	"errors"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AttemptController 作答状态机的 HTTP 入口
type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// attemptError 把状态机的前置校验错误映射到 HTTP 状态码
func attemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound):
		util.Error(ctx, 404, "quiz attempt not found")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizMismatch):
		util.BadRequest(ctx, "quiz id does not match this attempt")
	case errors.Is(err, util.ErrAttemptCompleted):
		util.BadRequest(ctx, "attempt already completed")
	case errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrQuestionNotInQuiz):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrOptionNotFound):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// StartAttempt godoc
// @Summary 开始或继续作答
// @Description 存在未完成作答时原样复用（200），否则新建（201）
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response{data=object} "复用未完成作答"
// @Success 201 {object} util.Response{data=object} "新建作答"
// @Failure 400 {object} util.Response "quiz 没有题目"
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/user/quizzes/{id}/attempt [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, resumed, err := c.AttemptService.StartOrResume(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizNoQuestions):
			util.BadRequest(ctx, "这个 quiz 还没有题目")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	payload := gin.H{"attempt": attempt, "resumed": resumed}
	if resumed {
		util.Success(ctx, payload)
	} else {
		util.Created(ctx, payload)
	}
}

// GetAttemptHistory godoc
// @Summary 该 quiz 最近 5 次已完成的作答
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/user/quizzes/{id}/attempt [get]
func (c *AttemptController) GetAttemptHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.AttemptService.History(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts})
}

// GetActiveAttempt godoc
// @Summary 续答状态（刷新页面后恢复用）
// @Description 返回未完成作答、缓存的剩余秒数与当前题号；没有未完成作答时 404
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response{data=service.ActiveAttemptState}
// @Failure 404 {object} util.Response "没有未完成的作答"
// @Router /api/user/quizzes/{id}/attempt/active [get]
func (c *AttemptController) GetActiveAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	state, err := c.AttemptService.ActiveState(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if state == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, state)
}

// swagger:model RecordAnswerRequest
type RecordAnswerRequest struct {
	QuestionID       string `json:"questionId" binding:"required"`
	SelectedOptionID string `json:"selectedOptionId" binding:"required"`
}

// RecordAnswer godoc
// @Summary 记录一道题的选择
// @Description 同一题重复提交会覆盖之前的选择；正确性由服务端计算
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Param   attemptId path string true "attempt ID"
// @Param   body body RecordAnswerRequest true "题目与选项"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "quiz 不匹配或已交卷"
// @Failure 403 {object} util.Response "作答属于其他用户"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/user/quizzes/{id}/attempt/{attemptId}/answer [post]
func (c *AttemptController) RecordAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AttemptService.RecordAnswer(
		ctx.Request.Context(),
		claims.UserID,
		ctx.Param("id"),
		ctx.Param("attemptId"),
		req.QuestionID,
		req.SelectedOptionID,
	)
	if err != nil {
		attemptError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"answer": answer})
}

// swagger:model SaveProgressRequest
type SaveProgressRequest struct {
	QuestionIndex *int `json:"questionIndex" binding:"required"`
}

// SaveProgress godoc
// @Summary 记录当前题号
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Param   attemptId path string true "attempt ID"
// @Param   body body SaveProgressRequest true "当前题号"
// @Success 200 {object} util.Response
// @Router /api/user/quizzes/{id}/attempt/{attemptId}/progress [put]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SaveProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || *req.QuestionIndex < 0 {
		util.BadRequest(ctx, "questionIndex 不合法")
		return
	}

	err := c.AttemptService.SaveProgress(
		ctx.Request.Context(),
		claims.UserID,
		ctx.Param("id"),
		ctx.Param("attemptId"),
		*req.QuestionIndex,
	)
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CompleteAttempt godoc
// @Summary 交卷
// @Description 计算成绩并落库。超时自动交卷和手动交卷竞争时，后到的一方
// 拿到已持久化的成绩和 alreadyCompleted=true，而不是错误。
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Param   attemptId path string true "attempt ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "作答属于其他用户"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/user/quizzes/{id}/attempt/{attemptId}/complete [post]
func (c *AttemptController) CompleteAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, fresh, err := c.AttemptService.Complete(
		ctx.Request.Context(),
		claims.UserID,
		ctx.Param("id"),
		ctx.Param("attemptId"),
	)
	if err != nil {
		attemptError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"success":          true,
		"result":           summary,
		"alreadyCompleted": !fresh,
	})
}
