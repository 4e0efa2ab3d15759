package controllers

import (
	"net/http"

	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/services"
)

// AIConfigurationController 模型配置接口，全部需要登录；chave_api 只写
type AIConfigurationController struct {
	BaseController
	Service *services.AIConfigurationService
}

func NewAIConfigurationController(svc *services.AIConfigurationService) *AIConfigurationController {
	return &AIConfigurationController{Service: svc}
}

func (c *AIConfigurationController) Prepare() {
	c.requireAuth()
}

// List GET /api/configuracoes-ia
func (c *AIConfigurationController) List() {
	list, err := c.Service.List(c.Ctx.Request.Context(), repository.ListOptions{
		Search:   c.GetString("search"),
		Ordering: c.GetString("ordering"),
	})
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get GET /api/configuracoes-ia/:id
func (c *AIConfigurationController) Get() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	cfg, err := c.Service.Get(c.Ctx.Request.Context(), id)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Create POST /api/configuracoes-ia
func (c *AIConfigurationController) Create() {
	var in services.AIConfigurationInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	cfg, err := c.Service.Create(c.Ctx.Request.Context(), in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// Update PUT/PATCH /api/configuracoes-ia/:id
func (c *AIConfigurationController) Update() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	var in services.AIConfigurationInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	cfg, err := c.Service.Update(c.Ctx.Request.Context(), id, in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Delete DELETE /api/configuracoes-ia/:id，已有交互记录的配置引用置空
func (c *AIConfigurationController) Delete() {
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
