package controller

import (
	"errors"
	"quiz_platform_backend/internal/service"
	"quiz_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 管理端 quiz 维护 + 用户端浏览
type QuizController struct {
	QuizService     *service.QuizService
	QuestionService *service.QuestionService
}

func NewQuizController(quizService *service.QuizService, questionService *service.QuestionService) *QuizController {
	return &QuizController{
		QuizService:     quizService,
		QuestionService: questionService,
	}
}

// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	TimeLimit   int    `json:"timeLimit" binding:"required,min=1"`
}

// CreateQuiz godoc
// @Summary 创建 quiz
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateQuizRequest true "quiz 信息"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.QuizService.CreateQuiz(claims.UserID, req.Title, req.Description, req.TimeLimit)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, quiz)
}

// ListQuizzes godoc
// @Summary quiz 列表（含题目数）
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.QuizListItem}
// @Router /api/user/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListQuizzes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"quizzes": quizzes})
}

// GetQuiz godoc
// @Summary quiz 详情（题目数，不含题目内容）
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response{data=service.QuizListItem}
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/user/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz})
}

// GetQuizDetail godoc
// @Summary quiz 完整内容（管理端，含正确答案）
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/admin/quizzes/{id} [get]
func (c *QuizController) GetQuizDetail(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuizDetail(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// @Summary 更新 quiz 基本信息
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Param   body body CreateQuizRequest true "quiz 信息"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(ctx.Param("id"), req.Title, req.Description, req.TimeLimit)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// @Summary 删除 quiz
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuiz(ctx.Param("id")); err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizHasAttempts):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetQuizQuestions godoc
// @Summary 答题端题目列表（不含正确答案）
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "quiz ID"
// @Success 200 {object} util.Response{data=[]service.TakerQuestion}
// @Failure 404 {object} util.Response "quiz 不存在"
// @Router /api/user/quizzes/{id}/questions [get]
func (c *QuizController) GetQuizQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.QuestionsForTaker(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"questions": questions})
}
