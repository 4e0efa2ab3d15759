package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/cognicursos/backend-go/internal/logger"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/services"
	"go.uber.org/zap"
)

// CourseController 课程接口与提问接口
type CourseController struct {
	BaseController
	Service   *services.CourseService
	Questions *services.QuestionService
}

func NewCourseController(svc *services.CourseService, questions *services.QuestionService) *CourseController {
	return &CourseController{Service: svc, Questions: questions}
}

func (c *CourseController) Prepare() {
	// 提问接口公开（受限流保护）
	if _, action := c.GetControllerAndAction(); action == "Ask" {
		return
	}
	c.requireAuthForWrites()
}

// List GET /api/cursos?categoria=&nivel=&ativo=&search=&ordering=
func (c *CourseController) List() {
	filter, err := c.courseFilter()
	if err != nil {
		c.JSONAppError(err)
		return
	}
	list, err := c.Service.List(c.Ctx.Request.Context(), filter)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (c *CourseController) courseFilter() (repository.CourseFilter, error) {
	filter := repository.CourseFilter{
		ListOptions: repository.ListOptions{
			Search:   c.GetString("search"),
			Ordering: c.GetString("ordering"),
		},
	}

	categoryID, err := c.parseUintQuery("categoria")
	if err != nil {
		return filter, err
	}
	filter.CategoryID = categoryID

	// 未知的等级不报错，按原值过滤得到空列表
	if raw := c.GetString("nivel"); raw != "" {
		level := models.Level(raw)
		filter.Level = &level
	}

	// 只有 "true"（不区分大小写）视为真，其他任何值视为假
	if raw, present := c.Ctx.Request.URL.Query()["ativo"]; present && len(raw) > 0 {
		active := strings.EqualFold(raw[0], "true")
		filter.Active = &active
	}
	return filter, nil
}

// Get GET /api/cursos/:id
func (c *CourseController) Get() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	course, err := c.Service.Get(c.Ctx.Request.Context(), id)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// Create POST /api/cursos
func (c *CourseController) Create() {
	var in services.CourseInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	course, err := c.Service.Create(c.Ctx.Request.Context(), in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// Update PUT/PATCH /api/cursos/:id
func (c *CourseController) Update() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	var in services.CourseInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	course, err := c.Service.Update(c.Ctx.Request.Context(), id, in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// Delete DELETE /api/cursos/:id
func (c *CourseController) Delete() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	if err := c.Service.Delete(c.Ctx.Request.Context(), id); err != nil {
		c.JSONAppError(err)
		return
	}
	c.NoContent()
}

// Ask POST /api/cursos/:id/perguntar
//
// 模型不可用时返回兜底答案而不是错误。课程不存在返回 404，
// 校验失败返回 400 与字段信息，其余失败统一为 400 {"error": msg}。
func (c *CourseController) Ask() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	var in services.AskInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}

	resp, err := c.Questions.Ask(c.Ctx.Request.Context(), id, in)
	if err != nil {
		appErr := apperrors.GetAppError(err)
		switch appErr.Code {
		case apperrors.ErrCodeResourceNotFound, apperrors.ErrCodeValidationFailed:
			c.JSONAppError(appErr)
		default:
			logger.Error("Question failed", zap.Uint("course_id", id), zap.Error(err))
			c.JSON(http.StatusBadRequest, map[string]string{"error": appErr.Message})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
