package http

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"github.com/micromvc-go/internal/core"
	"github.com/micromvc-go/pkg/logger"
)

// 服务器触发的事件
const (
	EventStartup = "system.startup"
	EventRequest = "system.request"

	// EventResponse 以 ctx.Response.Body() 的字符串作为值触发，返回值替换响应体。
	// 使用 SetBodyStream/SetBodyStreamWriter 的处理函数不经过此过滤
	EventResponse = "system.response"

	EventShutdown = "system.shutdown"
)

// HandlerFunc 请求处理函数
type HandlerFunc func(r *Request) error

// Server HTTP 服务器
type Server struct {
	app     *core.App
	handler HandlerFunc
	store   SessionStore
	access  *logger.MessageLog
	server  *fasthttp.Server
}

// NewServer 创建服务器
func NewServer(app *core.App, handler HandlerFunc) *Server {
	settings := app.Settings()
	s := &Server{
		app:     app,
		handler: handler,
		store:   NewMemoryStore(24 * time.Hour),
	}
	if settings.LogRoot != "" {
		s.access = logger.NewMessageLog(settings.LogRoot)
	}

	s.server = &fasthttp.Server{
		Handler:            s.Handle,
		Name:               "micromvc-go",
		ReadTimeout:        settings.ReadTimeoutDuration(),
		WriteTimeout:       settings.WriteTimeoutDuration(),
		MaxRequestBodySize: settings.MaxRequestBodySize,
	}
	return s
}

// SetSessionStore 替换会话存储
func (s *Server) SetSessionStore(store SessionStore) {
	s.store = store
}

// Handle 处理单个请求
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	req := NewRequest(ctx, s.app, s.store)
	events := s.app.Events()

	events.Fire(EventRequest, req)

	if err := s.handler(req); err != nil {
		logger.WithField("ip", req.ClientIP()).Errorf("Request %s %s failed: %v", ctx.Method(), ctx.RequestURI(), err)
		ctx.ResetBody()
		ctx.Error(fasthttp.StatusMessage(fasthttp.StatusInternalServerError), fasthttp.StatusInternalServerError)
	} else if events.Has(EventResponse) && !ctx.Response.IsBodyStream() {
		body := events.Fire(EventResponse, string(ctx.Response.Body()))
		if str, ok := body.(string); ok {
			ctx.Response.SetBodyString(str)
		}
	}

	logger.Debugf("%s %s %d (%v)", ctx.Method(), ctx.RequestURI(), ctx.Response.StatusCode(), time.Since(start))
	s.logAccess(req)
}

// Serve 在指定监听器上运行，ctx 取消后优雅关闭
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	events := s.app.Events()
	events.Fire(EventStartup, s)
	logger.Infof("Listening on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.server.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		events.Fire(EventShutdown, s)
		return s.server.Shutdown()
	})

	err := g.Wait()
	if s.access != nil {
		if cerr := s.access.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// ListenAndServe 监听配置中的地址并运行
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.app.Settings().ListenAddr
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %v", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) logAccess(req *Request) {
	if s.access == nil {
		return
	}
	ctx := req.Ctx()
	line := fmt.Sprintf("%s %s %d", ctx.Method(), ctx.RequestURI(), ctx.Response.StatusCode())
	if err := s.access.Write(req.ClientIP(), line); err != nil {
		logger.Warnf("Failed to write access log: %v", err)
	}
}
