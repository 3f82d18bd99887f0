package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micromvc-go/internal/core"
)

func TestGetDefaultOptions(t *testing.T) {
	options := GetDefaultOptions()

	if options.DefaultModule != "App" {
		t.Errorf("Expected default module App, got %s", options.DefaultModule)
	}
	if options.Debug {
		t.Error("Expected Debug to be false")
	}
}

func TestNew_AppliesOptions(t *testing.T) {
	root := t.TempDir()
	options := GetDefaultOptions()
	options.ConfigRoot = root
	options.SiteURL = "https://example.com/"

	f := New(options)

	require.NotNil(t, f.App())
	assert.Equal(t, root, f.Settings().ConfigRoot)
	assert.Equal(t, "https://example.com/", f.Settings().SiteURL)
}

func TestFramework_ConfigAndEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "App"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "App", "config.yaml"), []byte("site_name: Demo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "App", "lang.yaml"), []byte("hello: Hello\n"), 0o644))

	options := GetDefaultOptions()
	options.ConfigRoot = root
	options.LangRoot = root
	f := New(options)

	name, err := f.Config("site_name", "")
	require.NoError(t, err)
	assert.Equal(t, "Demo", name)

	hello, err := f.Lang("hello", "")
	require.NoError(t, err)
	assert.Equal(t, "Hello", hello)

	require.NoError(t, f.Boot(func(a *App) error {
		_, err := a.Event("sum", nil, func(v any) any { return v.(int) * 2 }, func(v any) any { return v.(int) + 1 })
		return err
	}))

	sum, err := f.Event("sum", 5)
	require.NoError(t, err)
	assert.Equal(t, 11, sum)

	service, err := f.Service()
	require.NoError(t, err)
	self, err := core.Resolve[*App](service, core.ServiceApp)
	require.NoError(t, err)
	assert.Same(t, f.App(), self)
}

func TestFramework_ServeRequiresHandler(t *testing.T) {
	f := New(GetDefaultOptions())
	assert.Error(t, f.Serve(context.Background(), nil))
}

func TestOptions_JSON(t *testing.T) {
	var options Options
	require.NoError(t, json.Unmarshal([]byte(`{"config_root":"etc","debug":true}`), &options))

	assert.Equal(t, "etc", options.ConfigRoot)
	assert.True(t, options.Debug)
}
