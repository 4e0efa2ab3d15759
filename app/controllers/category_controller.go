package controllers

import (
	"net/http"

	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/services"
)

// CategoryController 分类接口，读公开、写需要登录
type CategoryController struct {
	BaseController
	Service *services.CategoryService
}

func NewCategoryController(svc *services.CategoryService) *CategoryController {
	return &CategoryController{Service: svc}
}

func (c *CategoryController) Prepare() {
	c.requireAuthForWrites()
}

// List GET /api/categorias
func (c *CategoryController) List() {
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

// Get GET /api/categorias/:id
func (c *CategoryController) Get() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	category, err := c.Service.Get(c.Ctx.Request.Context(), id)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create POST /api/categorias
func (c *CategoryController) Create() {
	var in services.CategoryInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	category, err := c.Service.Create(c.Ctx.Request.Context(), in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update PUT/PATCH /api/categorias/:id
func (c *CategoryController) Update() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	var in services.CategoryInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	category, err := c.Service.Update(c.Ctx.Request.Context(), id, in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete DELETE /api/categorias/:id
func (c *CategoryController) Delete() {
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
