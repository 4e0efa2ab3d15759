package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"github.com/cognicursos/backend-go/app/middleware"
	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/cognicursos/backend-go/internal/logger"
	"go.uber.org/zap"
)

const (
	msgAuthRequired = "As credenciais de autenticação não foram fornecidas."
	msgInvalidJSON  = "JSON inválido."
	msgNotFound     = "Não encontrado."
)

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	_ = c.ServeJSON()
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// JSONAppError 将错误转换为统一的错误响应，字段级错误放在 fields 中
func (c *BaseController) JSONAppError(err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Ctx.Input.Method()),
			zap.String("path", c.Ctx.Input.URL()),
			zap.String("request_id", middleware.RequestIDFrom(c.Ctx)),
			zap.Error(err))
	}

	body := map[string]interface{}{
		"success": false,
		"error":   appErr.Message,
	}
	if fields := appErr.FieldErrors(); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(appErr.HTTPCode, body)
}

// NoContent writes an empty 204 response.
func (c *BaseController) NoContent() {
	c.Ctx.ResponseWriter.WriteHeader(http.StatusNoContent)
}

// decodeBody 解析请求体；类型错误转换为字段错误
func (c *BaseController) decodeBody(v interface{}) error {
	body := c.Ctx.Input.RequestBody
	if len(body) == 0 && c.Ctx.Request.Body != nil {
		raw, err := io.ReadAll(c.Ctx.Request.Body)
		if err != nil {
			return apperrors.NewValidationError(msgInvalidJSON).WithCause(err)
		}
		body = raw
	}
	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.NewFieldError(typeErr.Field, "Tipo de dado inválido.")
		}
		return apperrors.NewValidationError(msgInvalidJSON).WithCause(err)
	}
	return nil
}

// parseID 读取路径参数 :id，非法时返回 404
func (c *BaseController) parseID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Input.Param(":id"), 10, 64)
	if err != nil || id == 0 {
		c.JSONError(http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return uint(id), true
}

// currentUserID 由认证过滤器写入
func (c *BaseController) currentUserID() (uint, bool) {
	id, ok := c.Ctx.Input.GetData(middleware.DataUserID).(uint)
	return id, ok && id != 0
}

// requireAuth 未登录时写出 401 并终止请求，在 Prepare 中调用
func (c *BaseController) requireAuth() {
	if _, ok := c.currentUserID(); ok {
		return
	}
	c.JSONError(http.StatusUnauthorized, msgAuthRequired)
	c.StopRun()
}

// requireAuthForWrites 读操作公开，写操作需要登录
func (c *BaseController) requireAuthForWrites() {
	switch c.Ctx.Input.Method() {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return
	}
	c.requireAuth()
}

// parseUintQuery 可选的无符号整数查询参数
func (c *BaseController) parseUintQuery(key string) (*uint, error) {
	raw := c.GetString(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewFieldError(key, "Informe um número inteiro válido.")
	}
	id := uint(v)
	return &id, nil
}
