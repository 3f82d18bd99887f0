package api

import (
	"context"
	"fmt"

	"github.com/micromvc-go/internal/config"
	"github.com/micromvc-go/internal/core"
	"github.com/micromvc-go/internal/http"
	"github.com/micromvc-go/pkg/logger"
)

// 对外暴露的类型
type (
	App         = core.App
	Service     = core.Service
	Callback    = core.Callback[any]
	Request     = http.Request
	HandlerFunc = http.HandlerFunc
)

// Options 配置选项，空值沿用进程配置
type Options struct {
	// 目录配置
	ConfigRoot string `json:"config_root"` // 模块配置目录
	LangRoot   string `json:"lang_root"`   // 语言文件目录
	LogRoot    string `json:"log_root"`    // 访问日志目录

	// 模块配置
	DefaultModule string `json:"default_module"` // 默认模块名

	// HTTP配置
	ListenAddr string `json:"listen_addr"` // 监听地址
	SiteURL    string `json:"site_url"`    // 站点根地址

	// 日志配置
	Debug   bool `json:"debug"`   // 调试模式
	Verbose bool `json:"verbose"` // 详细日志
}

// Framework 框架入口，持有一个应用上下文
type Framework struct {
	config *config.Config
	app    *core.App
}

// GetDefaultOptions 获取默认选项
func GetDefaultOptions() Options {
	return Options{
		DefaultModule: core.DefaultModule,
	}
}

// New 创建框架实例
func New(options Options, opts ...core.Option) *Framework {
	cfg := *config.GetConfig()

	if options.ConfigRoot != "" {
		cfg.ConfigRoot = options.ConfigRoot
	}
	if options.LangRoot != "" {
		cfg.LangRoot = options.LangRoot
	}
	if options.LogRoot != "" {
		cfg.LogRoot = options.LogRoot
	}
	if options.DefaultModule != "" {
		cfg.DefaultModule = options.DefaultModule
	}
	if options.ListenAddr != "" {
		cfg.ListenAddr = options.ListenAddr
	}
	if options.SiteURL != "" {
		cfg.SiteURL = options.SiteURL
	}

	// 配置日志
	if options.Debug {
		logger.Init("debug", cfg.LogFile)
	} else if options.Verbose {
		logger.Init("info", cfg.LogFile)
	}

	return &Framework{
		config: &cfg,
		app:    core.NewApp(&cfg, opts...),
	}
}

// App 应用上下文
func (f *Framework) App() *core.App {
	return f.app
}

// Settings 生效的进程配置
func (f *Framework) Settings() *config.Config {
	return f.config
}

// Service 获取唯一的服务容器
func (f *Framework) Service() (*core.Service, error) {
	return f.app.Service()
}

// Config 读取模块配置项
func (f *Framework) Config(key, module string) (any, error) {
	return f.app.Config(key, module)
}

// Lang 获取语言文本
func (f *Framework) Lang(key, module string) (string, error) {
	return f.app.Lang(key, module)
}

// Event 注册、清除或触发事件
func (f *Framework) Event(key string, value any, callbacks ...Callback) (any, error) {
	return f.app.Event(key, value, callbacks...)
}

// Boot 执行启动期注册并封存事件
func (f *Framework) Boot(hooks ...func(*App) error) error {
	return f.app.Boot(hooks...)
}

// Serve 启动 HTTP 服务，ctx 取消后返回
func (f *Framework) Serve(ctx context.Context, handler HandlerFunc) error {
	if handler == nil {
		return fmt.Errorf("handler is required")
	}
	return http.NewServer(f.app, handler).ListenAndServe(ctx)
}
