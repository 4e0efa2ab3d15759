package di

import (
	"errors"

	"github.com/cognicursos/backend-go/internal/config"
	"go.uber.org/dig"
)

// Container 全局容器，由 New 或 InitContainer 设置
var Container *dig.Container

var errNoContainer = errors.New("di: container not initialized")

// InitContainer 创建空容器并设为全局实例
func InitContainer() *dig.Container {
	Container = dig.New()
	return Container
}

// New 创建全局容器并注册全部提供者
func New(cfg *config.Config) (*dig.Container, error) {
	container := InitContainer()
	if err := RegisterProviders(container, cfg); err != nil {
		return nil, err
	}
	return container, nil
}

// Invoke 在全局容器上执行函数
func Invoke(function interface{}, opts ...dig.InvokeOption) error {
	if Container == nil {
		return errNoContainer
	}
	return Container.Invoke(function, opts...)
}
