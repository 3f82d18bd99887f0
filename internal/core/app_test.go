package core

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micromvc-go/internal/config"
)

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()

	root := t.TempDir()
	writeModuleFile(t, root, "App", "config.yaml", "site_name: Demo\nsite_url: http://localhost/\n")
	writeModuleFile(t, root, "App", "lang.yaml", "welcome: Welcome to %s\n")
	writeModuleFile(t, root, "Shop", "config.yaml", "currency: EUR\n")

	settings := &config.Config{ConfigRoot: root, LangRoot: root, DefaultModule: "App"}
	return NewApp(settings, opts...)
}

func TestApp_ServiceAggregatesCore(t *testing.T) {
	app := newTestApp(t)

	service, err := app.Service()
	require.NoError(t, err)

	again, err := app.Service()
	require.NoError(t, err)
	assert.Same(t, service, again)

	self, err := Resolve[*App](service, ServiceApp)
	require.NoError(t, err)
	assert.Same(t, app, self)

	events, err := Resolve[*Dispatcher[any]](service, ServiceEvents)
	require.NoError(t, err)
	assert.Same(t, app.Events(), events)

	configs, err := Resolve[*ConfigCache](service, ServiceConfigs)
	require.NoError(t, err)
	assert.Same(t, app.Configs(), configs)
}

func TestApp_Config(t *testing.T) {
	app := newTestApp(t)

	name, err := app.Config("site_name", "")
	require.NoError(t, err)
	assert.Equal(t, "Demo", name)

	currency, err := app.Config("currency", "Shop")
	require.NoError(t, err)
	assert.Equal(t, "EUR", currency)

	_, err = app.Config("currency", "App")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	cfg, err := app.ModuleConfig("")
	require.NoError(t, err)
	assert.Equal(t, "App", cfg.Module())

	assert.Equal(t, []string{"App", "Shop"}, app.Configs().Loaded())
}

func TestApp_Lang(t *testing.T) {
	app := newTestApp(t)

	text, err := app.Lang("welcome", "")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to %s", text)

	formatted, err := app.Langs().Format("welcome", "App", "Demo")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Demo", formatted)

	_, err = app.Lang("missing", "App")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = app.Lang("welcome", "Shop")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestApp_BootSealsEvents(t *testing.T) {
	app := newTestApp(t)

	err := app.Boot(func(a *App) error {
		_, err := a.Event("title", nil, func(v any) any { return v.(string) + " | Demo" })
		return err
	})
	require.NoError(t, err)
	assert.True(t, app.Events().Sealed())

	title, err := app.Event("title", "Home")
	require.NoError(t, err)
	assert.Equal(t, "Home | Demo", title)

	_, err = app.Event("title", nil, func(v any) any { return v })
	assert.ErrorIs(t, err, ErrDispatcherSealed)
}

func TestApp_BootHookFailure(t *testing.T) {
	app := newTestApp(t)
	boom := errors.New("boom")

	err := app.Boot(func(*App) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, app.Events().Sealed())
}

func TestApp_Options(t *testing.T) {
	loader := newCountingLoader(map[string]map[string]any{
		"App": {"answer": 42},
	})
	custom := NewService()
	require.NoError(t, custom.Set("logger", logrus.New()))

	app := newTestApp(t,
		WithConfigLoader(loader.load),
		WithLangLoader(loader.load),
		WithServiceBuilder(func(*App) (*Service, error) { return custom, nil }),
	)

	answer, err := app.Config("answer", "")
	require.NoError(t, err)
	assert.Equal(t, 42, answer)

	text, err := app.Lang("answer", "")
	require.NoError(t, err)
	assert.Equal(t, "42", text)
	assert.Equal(t, 2, loader.count("App"), "config and lang caches load independently")

	service, err := app.Service()
	require.NoError(t, err)
	assert.Same(t, custom, service)
}
