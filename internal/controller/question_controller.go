package controller

import (
	"errors"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// swagger:model CreateQuestionRequest
type CreateQuestionRequest struct {
	Content string                `json:"content" binding:"required"`
	Options []service.OptionInput `json:"options" binding:"required"`
}

// CreateQuestion godoc
// @Summary 为 quiz 录入一道单选题
// @Description 至少 2 个选项，且恰好 1 个标记为正确
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Param   body body CreateQuestionRequest true "题目与选项"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "选项不合法"
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/admin/quizzes/{id}/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.AddQuestion(ctx.Param("id"), req.Content, req.Options)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuestionNeedsOptions), errors.Is(err, util.ErrQuestionNeedsCorrect):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"question": question})
}

// DeleteQuestion godoc
// @Summary 删除题目及其选项
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionService.DeleteQuestion(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "题目已删除"})
}
