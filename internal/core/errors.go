package core

import "errors"

var (
	// ErrKeyNotFound 配置或语言项不存在
	ErrKeyNotFound = errors.New("key not found")

	// ErrModuleNotFound 模块的配置源不存在
	ErrModuleNotFound = errors.New("module source not found")

	// ErrServiceNotFound 服务未注册
	ErrServiceNotFound = errors.New("service not found")

	// ErrDispatcherSealed 事件调度器已封存，不再接受注册或清除
	ErrDispatcherSealed = errors.New("event dispatcher is sealed")

	// ErrInvalidKey 空的事件或服务名
	ErrInvalidKey = errors.New("invalid key")
)
