package controllers

import (
	"net/http"

	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/services"
)

// InteractionController 交互记录只读接口
type InteractionController struct {
	BaseController
	Service *services.InteractionService
}

func NewInteractionController(svc *services.InteractionService) *InteractionController {
	return &InteractionController{Service: svc}
}

func (c *InteractionController) Prepare() {
	c.requireAuth()
}

// List GET /api/interacoes?curso=&search=&ordering=
func (c *InteractionController) List() {
	courseID, err := c.parseUintQuery("curso")
	if err != nil {
		c.JSONAppError(err)
		return
	}
	list, err := c.Service.List(c.Ctx.Request.Context(), repository.InteractionFilter{
		ListOptions: repository.ListOptions{
			Search:   c.GetString("search"),
			Ordering: c.GetString("ordering"),
		},
		CourseID: courseID,
	})
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get GET /api/interacoes/:id
func (c *InteractionController) Get() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	interaction, err := c.Service.Get(c.Ctx.Request.Context(), id)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, interaction)
}
