package http

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/micromvc-go/internal/core"
)

func TestServer_HandleFiresEvents(t *testing.T) {
	app := newTestApp("http://example.com/", nil)
	require.NoError(t, app.Events().On(EventRequest, func(v any) any {
		v.(*Request).Ctx().Response.Header.Set("X-Seen", "1")
		return v
	}))
	require.NoError(t, app.Events().On(EventResponse, func(v any) any {
		return strings.ToUpper(v.(string))
	}))

	srv := NewServer(app, func(r *Request) error {
		r.Ctx().SetBodyString("hello " + r.Get("name", "world"))
		return nil
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("http://example.com/?name=go")
	srv.Handle(ctx)

	assert.Equal(t, "HELLO GO", string(ctx.Response.Body()))
	assert.Equal(t, "1", string(ctx.Response.Header.Peek("X-Seen")))
}

func TestServer_HandlerError(t *testing.T) {
	app := newTestApp("http://example.com/", nil)
	srv := NewServer(app, func(r *Request) error {
		r.Ctx().SetBodyString("partial")
		return errors.New("boom")
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("http://example.com/")
	srv.Handle(ctx)

	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.NotContains(t, string(ctx.Response.Body()), "partial")
}

func TestServer_ServeLifecycle(t *testing.T) {
	app := newTestApp("http://example.com/", nil)
	var started, stopped atomic.Int32
	require.NoError(t, app.Boot(func(a *core.App) error {
		if err := a.Events().On(EventStartup, func(v any) any { started.Add(1); return v }); err != nil {
			return err
		}
		return a.Events().On(EventShutdown, func(v any) any { stopped.Add(1); return v })
	}))

	srv := NewServer(app, func(r *Request) error {
		r.Ctx().SetBodyString(r.Message("notice", "") + "ok")
		return nil
	})

	ln := fasthttputil.NewInmemoryListener()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI("http://example.com/")
	req.SetConnectionClose()

	require.NoError(t, client.Do(req, resp))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", string(resp.Body()))

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int32(1), stopped.Load())
}

// countingStore 记录会话创建次数
type countingStore struct {
	*MemoryStore
	created atomic.Int32
}

func (c *countingStore) Create() (string, Session) {
	c.created.Add(1)
	return c.MemoryStore.Create()
}

func TestServer_SetSessionStore(t *testing.T) {
	app := newTestApp("http://example.com/", nil)
	store := &countingStore{MemoryStore: NewMemoryStore(0)}

	srv := NewServer(app, func(r *Request) error {
		r.SetSession("visits", 1)
		return nil
	})
	srv.SetSessionStore(store)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("http://example.com/")
	srv.Handle(ctx)

	assert.Equal(t, int32(1), store.created.Load())
	assert.Equal(t, 1, store.Len())
}

func TestServer_ResponseFilterSkipsStreams(t *testing.T) {
	app := newTestApp("http://example.com/", nil)
	var filtered atomic.Int32
	require.NoError(t, app.Events().On(EventResponse, func(v any) any {
		filtered.Add(1)
		return "replaced"
	}))

	srv := NewServer(app, func(r *Request) error {
		r.Ctx().SetBodyStream(strings.NewReader("streamed"), -1)
		return nil
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("http://example.com/")
	srv.Handle(ctx)

	assert.Equal(t, int32(0), filtered.Load())
	assert.True(t, ctx.Response.IsBodyStream())
}
