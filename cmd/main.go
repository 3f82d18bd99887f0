package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/micromvc-go/internal/config"
	"github.com/micromvc-go/internal/core"
	"github.com/micromvc-go/internal/http"
	"github.com/micromvc-go/pkg/logger"
	"github.com/micromvc-go/pkg/utils"
)

var (
	// 命令行参数
	addr       string
	configRoot string
	module     string
	debug      bool
)

// MicroMVC 主程序
type MicroMVC struct {
	config *config.Config
	app    *core.App
	bench  *utils.Benchmark
}

// NewMicroMVC 创建 MicroMVC 实例
func NewMicroMVC() *MicroMVC {
	cfg := config.GetConfig()
	configParam(cfg)

	return &MicroMVC{
		config: cfg,
		app:    core.NewApp(cfg),
		bench:  utils.NewBenchmark(),
	}
}

// configParam 命令行参数覆盖配置
func configParam(cfg *config.Config) {
	if addr != "" {
		cfg.ListenAddr = addr
	}
	if configRoot != "" {
		cfg.ConfigRoot = configRoot
		cfg.LangRoot = configRoot
	}
	if debug {
		cfg.DebugEnabled = true
		logger.SetLevel("debug")
	}
}

// serve 启动 HTTP 服务
func (m *MicroMVC) serve() error {
	if err := m.app.Boot(registerEvents); err != nil {
		return err
	}

	elapsed, memory := m.bench.Mark()
	logger.Infof("Boot finished in %v (%d bytes)", elapsed, memory)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := http.NewServer(m.app, m.welcome)
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server stopped: %v", err)
	}

	logger.Info("Server stopped")
	return nil
}

// welcome 默认首页
func (m *MicroMVC) welcome(r *http.Request) error {
	name, err := m.app.Config("site_name", "")
	if err != nil {
		name = "MicroMVC"
	}

	greeting, err := m.app.Langs().Format("welcome", "", name)
	if err != nil {
		greeting = fmt.Sprintf("Welcome to %v", name)
	}

	title := m.app.Events().Fire("page.title", utils.Str(name, "MicroMVC"))

	ctx := r.Ctx()
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBodyString(fmt.Sprintf("<html><head><title>%s</title></head><body>%s<h1>%s</h1></body></html>",
		utils.H(utils.Str(title, "")), r.Message("", ""), utils.H(greeting)))
	return nil
}

// registerEvents 启动期注册的事件
func registerEvents(app *core.App) error {
	events := app.Events()
	if err := events.On(http.EventStartup, func(v any) any {
		logger.Info("Server starting")
		return v
	}); err != nil {
		return err
	}
	if err := events.On(http.EventShutdown, func(v any) any {
		logger.Info("Server shutting down")
		return v
	}); err != nil {
		return err
	}
	return events.On(http.EventRequest, func(v any) any {
		if r, ok := v.(*http.Request); ok {
			logger.Debugf("Request from %s: %s", r.ClientIP(), r.CurrentURL(true))
		}
		return v
	})
}

// showConfig 输出模块配置
func (m *MicroMVC) showConfig(key string) error {
	if key != "" {
		value, err := m.app.Config(key, module)
		if err != nil {
			return err
		}
		fmt.Println(utils.Str(value, fmt.Sprintf("%v", value)))
		return nil
	}

	cfg, err := m.app.ModuleConfig(module)
	if err != nil {
		return err
	}
	for _, k := range cfg.Keys() {
		value, _ := cfg.Get(k)
		fmt.Printf("%s = %v\n", k, value)
	}
	return nil
}

// showLang 输出语言文本
func (m *MicroMVC) showLang(key string) error {
	text, err := m.app.Lang(key, module)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

// version 显示版本信息
func (m *MicroMVC) version() {
	fmt.Println("MicroMVC-Go v1.0.0")
	fmt.Println("A small web framework bootstrap layer")
}

// 创建根命令
var rootCmd = &cobra.Command{
	Use:   "micromvc",
	Short: "MicroMVC-Go is a small web framework",
	Long: `MicroMVC-Go is a small web framework written in Go.
It provides a service registry, per-module configuration and language files,
a named event dispatcher and request helpers on top of fasthttp.`,
}

// 创建服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return NewMicroMVC().serve()
	},
}

// 创建配置命令
var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Print a module configuration value",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return NewMicroMVC().showConfig(key)
	},
}

// 创建语言命令
var langCmd = &cobra.Command{
	Use:   "lang <key>",
	Short: "Print a language string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return NewMicroMVC().showLang(args[0])
	},
}

// 创建令牌命令
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a random token",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(utils.Token())
	},
}

// 创建版本命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		NewMicroMVC().version()
	},
}

func init() {
	cfg := config.GetConfig()

	// 根据配置设置日志级别
	logLevel := cfg.LogLevel
	if cfg.DebugEnabled {
		logLevel = "debug"
	}
	if err := logger.Init(logLevel, cfg.LogFile); err != nil {
		logger.Fatal(err)
	}

	rootCmd.AddCommand(serveCmd, configCmd, langCmd, tokenCmd, versionCmd)

	rootCmd.PersistentFlags().StringVarP(&configRoot, "config-root", "c", "", "模块配置目录")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "启用调试模式")

	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "监听地址")

	configCmd.Flags().StringVarP(&module, "module", "m", core.DefaultModule, "模块名")
	langCmd.Flags().StringVarP(&module, "module", "m", core.DefaultModule, "模块名")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}
