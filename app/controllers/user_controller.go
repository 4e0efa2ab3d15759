package controllers

import (
	"net/http"

	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/cognicursos/backend-go/internal/services"
)

// UserController 用户管理接口
type UserController struct {
	BaseController
	Service *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Service: svc}
}

func (c *UserController) Prepare() {
	c.requireAuth()
}

func (c *UserController) List() {
	users, err := c.Service.List(c.Ctx.Request.Context())
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (c *UserController) Get() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	user, err := c.Service.Get(c.Ctx.Request.Context(), id)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (c *UserController) Create() {
	var in services.UserInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	user, err := c.Service.Create(c.Ctx.Request.Context(), in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (c *UserController) Update() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	var in services.UserInput
	if err := c.decodeBody(&in); err != nil {
		c.JSONAppError(err)
		return
	}
	user, err := c.Service.Update(c.Ctx.Request.Context(), id, in)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (c *UserController) Delete() {
	id, ok := c.parseID()
	if !ok {
		return
	}
	// 不允许删除自己
	if current, _ := c.currentUserID(); current == id {
		c.JSONAppError(apperrors.NewBusinessError(apperrors.ErrCodeForbidden, "Não é possível remover o próprio usuário."))
		return
	}
	if err := c.Service.Delete(c.Ctx.Request.Context(), id); err != nil {
		c.JSONAppError(err)
		return
	}
	c.NoContent()
}

// AuthController 令牌签发
type AuthController struct {
	BaseController
	Service *services.UserService
}

func NewAuthController(svc *services.UserService) *AuthController {
	return &AuthController{Service: svc}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token POST /api/auth/token
func (c *AuthController) Token() {
	var req tokenRequest
	if err := c.decodeBody(&req); err != nil {
		c.JSONAppError(err)
		return
	}

	fields := map[string]string{}
	if req.Username == "" {
		fields["username"] = "Este campo é obrigatório."
	}
	if req.Password == "" {
		fields["password"] = "Este campo é obrigatório."
	}
	if len(fields) > 0 {
		c.JSONAppError(apperrors.NewValidationError("Este campo é obrigatório.").WithDetails(fields))
		return
	}

	token, err := c.Service.Authenticate(c.Ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusOK, token)
}
