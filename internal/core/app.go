package core

import (
	"fmt"

	"github.com/micromvc-go/internal/config"
	"github.com/micromvc-go/pkg/logger"
)

// 服务容器中的固定服务名
const (
	ServiceApp      = "app"
	ServiceSettings = "settings"
	ServiceConfigs  = "configs"
	ServiceLang     = "lang"
	ServiceEvents   = "events"
	ServiceLogger   = "logger"
)

// Option App 配置选项
type Option func(*App)

// WithConfigLoader 替换模块配置加载器
func WithConfigLoader(loader Loader) Option {
	return func(a *App) {
		a.configs = NewConfigCache(SourceConfig, loader)
	}
}

// WithLangLoader 替换语言文件加载器
func WithLangLoader(loader Loader) Option {
	return func(a *App) {
		a.lang = NewLang(loader)
	}
}

// WithServiceBuilder 替换服务容器的构造函数
func WithServiceBuilder(build func(*App) (*Service, error)) Option {
	return func(a *App) {
		a.registry = NewRegistry(func() (*Service, error) {
			return build(a)
		})
	}
}

// App 应用上下文，持有服务注册器、模块配置缓存、语言缓存和事件调度器。
// 进程内创建一次并在所有请求间共享。
type App struct {
	settings *config.Config
	registry *Registry
	configs  *ConfigCache
	lang     *Lang
	events   *Dispatcher[any]
}

// NewApp 创建应用上下文
func NewApp(settings *config.Config, opts ...Option) *App {
	a := &App{
		settings: settings,
		configs:  NewConfigCache(SourceConfig, NewFileLoader(settings.ConfigRoot)),
		lang:     NewLang(NewFileLoader(settings.LangRoot)),
		events:   NewDispatcher[any](),
	}
	a.registry = NewRegistry(func() (*Service, error) {
		return DefaultService(a)
	})

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultService 构造包含框架核心对象的服务容器
func DefaultService(a *App) (*Service, error) {
	service := NewService()
	entries := map[string]any{
		ServiceApp:      a,
		ServiceSettings: a.settings,
		ServiceConfigs:  a.configs,
		ServiceLang:     a.lang,
		ServiceEvents:   a.events,
	}
	if l := logger.GetLogger(); l != nil {
		entries[ServiceLogger] = l
	}

	for name, value := range entries {
		if err := service.Set(name, value); err != nil {
			return nil, err
		}
	}
	return service, nil
}

// Settings 进程级配置
func (a *App) Settings() *config.Config {
	return a.settings
}

// Service 获取唯一的服务容器
func (a *App) Service() (*Service, error) {
	return a.registry.Get()
}

// Registry 服务注册器
func (a *App) Registry() *Registry {
	return a.registry
}

// Config 读取模块配置项，key 为空时返回整个模块配置
func (a *App) Config(key, module string) (any, error) {
	return a.configs.Get(key, a.module(module))
}

// ModuleConfig 获取整个模块配置
func (a *App) ModuleConfig(module string) (*ModuleConfig, error) {
	return a.configs.Module(a.module(module))
}

// Configs 模块配置缓存
func (a *App) Configs() *ConfigCache {
	return a.configs
}

// Lang 获取语言文本
func (a *App) Lang(key, module string) (string, error) {
	return a.lang.Get(key, a.module(module))
}

// Langs 语言查询器
func (a *App) Langs() *Lang {
	return a.lang
}

// Event 注册、清除或触发事件，规则同 Dispatcher.Event
func (a *App) Event(key string, value any, callbacks ...Callback[any]) (any, error) {
	return a.events.Event(key, value, callbacks...)
}

// Events 事件调度器
func (a *App) Events() *Dispatcher[any] {
	return a.events
}

// Boot 执行启动期的注册函数，完成后封存事件调度器
func (a *App) Boot(hooks ...func(*App) error) error {
	for i, hook := range hooks {
		if err := hook(a); err != nil {
			return fmt.Errorf("boot hook #%d: %w", i+1, err)
		}
	}

	if _, err := a.Service(); err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	a.events.Seal()
	logger.Infof("Application booted with %d event(s)", len(a.events.Keys()))
	return nil
}

func (a *App) module(module string) string {
	if module != "" {
		return module
	}
	if a.settings.DefaultModule != "" {
		return a.settings.DefaultModule
	}
	return DefaultModule
}
