package http

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/micromvc-go/internal/core"
	"github.com/micromvc-go/pkg/utils"
)

// Request 单个请求的上下文，请求结束后丢弃
type Request struct {
	ctx      *fasthttp.RequestCtx
	app      *core.App
	store    SessionStore
	session  Session
	messages *Messages
}

// NewRequest 包装 fasthttp 请求
func NewRequest(ctx *fasthttp.RequestCtx, app *core.App, store SessionStore) *Request {
	return &Request{
		ctx:      ctx,
		app:      app,
		store:    store,
		messages: NewMessages(),
	}
}

// Ctx 底层 fasthttp 上下文
func (r *Request) Ctx() *fasthttp.RequestCtx {
	return r.ctx
}

// App 应用上下文
func (r *Request) App() *core.App {
	return r.app
}

// Get 读取查询参数，不存在时返回默认值
func (r *Request) Get(key, def string) string {
	args := r.ctx.QueryArgs()
	if !args.Has(key) {
		return def
	}
	return string(args.Peek(key))
}

// GetAll 读取同名查询参数的全部值
func (r *Request) GetAll(key string) []string {
	return toStrings(r.ctx.QueryArgs().PeekMulti(key))
}

// Post 读取表单参数，不存在时返回默认值
func (r *Request) Post(key, def string) string {
	if args := r.ctx.PostArgs(); args.Has(key) {
		return string(args.Peek(key))
	}
	if form, err := r.ctx.MultipartForm(); err == nil {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
	}
	return def
}

// PostAll 读取同名表单参数的全部值
func (r *Request) PostAll(key string) []string {
	if values := toStrings(r.ctx.PostArgs().PeekMulti(key)); len(values) > 0 {
		return values
	}
	if form, err := r.ctx.MultipartForm(); err == nil {
		return form.Value[key]
	}
	return nil
}

// Session 读取会话值，不存在时返回默认值
func (r *Request) Session(key string, def any) any {
	if v, ok := r.currentSession().Get(key); ok {
		return v
	}
	return def
}

// SetSession 写入会话值
func (r *Request) SetSession(key string, value any) {
	r.currentSession().Set(key, value)
}

// Message 添加或渲染提示消息
func (r *Request) Message(typ, value string) string {
	return r.messages.Message(typ, value)
}

// Messages 本次请求的消息集合
func (r *Request) Messages() *Messages {
	return r.messages
}

// Redirect 跳转到站内或外部地址，method 为 "refresh" 时使用 Refresh 头
func (r *Request) Redirect(uri string, code int, method string) {
	if code == 0 {
		code = fasthttp.StatusFound
	}
	target := r.SiteURL(uri)

	if method == "refresh" {
		r.ctx.Response.Header.Set("Refresh", "0;url = "+target)
	} else {
		r.ctx.Response.Header.Set(fasthttp.HeaderLocation, target)
	}
	r.ctx.SetStatusCode(code)
}

// SiteURL 站点内路径的完整 URL
func (r *Request) SiteURL(uri string) string {
	return utils.SiteURL(r.BaseURL(), uri)
}

// CurrentURL 当前请求的 URL；includeDomain 为 true 时包含协议、主机与查询串
func (r *Request) CurrentURL(includeDomain bool) string {
	if includeDomain {
		return r.ctx.URI().String()
	}
	return r.BaseURL() + strings.TrimLeft(string(r.ctx.Path()), "/")
}

// BaseURL 站点根地址，以 / 结尾
func (r *Request) BaseURL() string {
	base := r.app.Settings().SiteURL
	if base == "" {
		if cfg, err := r.app.ModuleConfig(""); err == nil {
			base, _ = cfg.String("site_url")
		}
	}
	if base == "" {
		base = string(r.ctx.URI().Scheme()) + "://" + string(r.ctx.Host())
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// ClientIP 客户端 IP
func (r *Request) ClientIP() string {
	return r.ctx.RemoteIP().String()
}

func (r *Request) currentSession() Session {
	if r.session != nil {
		return r.session
	}

	cookie := r.app.Settings().SessionCookie
	if id := string(r.ctx.Request.Header.Cookie(cookie)); id != "" {
		if session, ok := r.store.Load(id); ok {
			r.session = session
			return r.session
		}
	}

	// 未知或过期的 ID 不沿用，总是下发新 ID
	id, session := r.store.Create()
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(cookie)
	c.SetValue(id)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	r.ctx.Response.Header.SetCookie(c)

	r.session = session
	return r.session
}

func toStrings(values [][]byte) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
