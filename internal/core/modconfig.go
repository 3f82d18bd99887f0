package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/micromvc-go/pkg/logger"
)

// DefaultModule 未指定模块时使用的模块名
const DefaultModule = "App"

// 配置源标识
const (
	SourceConfig = "config"
	SourceLang   = "lang"
)

// ModuleConfig 单个模块的配置对象，按名称读取属性
type ModuleConfig struct {
	source string
	module string
	values *viper.Viper
}

// NewModuleConfig 由内存数据创建模块配置
func NewModuleConfig(source, module string, values map[string]any) *ModuleConfig {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return &ModuleConfig{source: source, module: module, values: v}
}

// Module 模块名
func (m *ModuleConfig) Module() string {
	return m.module
}

// Source 配置源标识
func (m *ModuleConfig) Source() string {
	return m.source
}

// Has 属性是否存在
func (m *ModuleConfig) Has(key string) bool {
	return key != "" && m.values.IsSet(key)
}

// Get 读取属性原始值，不存在时返回 ErrKeyNotFound
func (m *ModuleConfig) Get(key string) (any, error) {
	if !m.Has(key) {
		return nil, fmt.Errorf("%s %q in module %s: %w", m.source, key, m.module, ErrKeyNotFound)
	}
	return m.values.Get(key), nil
}

// String 读取字符串属性
func (m *ModuleConfig) String(key string) (string, error) {
	raw, err := m.Get(key)
	if err != nil {
		return "", err
	}
	return cast.ToStringE(raw)
}

// Int 读取整数属性
func (m *ModuleConfig) Int(key string) (int, error) {
	raw, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	return cast.ToIntE(raw)
}

// Bool 读取布尔属性
func (m *ModuleConfig) Bool(key string) (bool, error) {
	raw, err := m.Get(key)
	if err != nil {
		return false, err
	}
	return cast.ToBoolE(raw)
}

// Duration 读取时间间隔属性，如 "30s"
func (m *ModuleConfig) Duration(key string) (time.Duration, error) {
	raw, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	return cast.ToDurationE(raw)
}

// StringSlice 读取字符串列表属性
func (m *ModuleConfig) StringSlice(key string) ([]string, error) {
	raw, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	return cast.ToStringSliceE(raw)
}

// Keys 所有属性名（已排序，小写）
func (m *ModuleConfig) Keys() []string {
	keys := m.values.AllKeys()
	sort.Strings(keys)
	return keys
}

// Unmarshal 将整个配置解码到结构体
func (m *ModuleConfig) Unmarshal(out any) error {
	return m.values.Unmarshal(out)
}

// Loader 根据配置源与模块名构造配置对象
type Loader func(source, module string) (*ModuleConfig, error)

// NewFileLoader 从 <root>/<Module>/<source>.{yaml,json,toml} 加载配置，
// 环境变量 <MODULE>_<KEY> 可覆盖文件中的值
func NewFileLoader(root string) Loader {
	return func(source, module string) (*ModuleConfig, error) {
		if !validModuleName(module) {
			return nil, fmt.Errorf("load %s for module %q: %w", source, module, ErrInvalidKey)
		}

		v := viper.New()
		v.SetConfigName(source)
		v.AddConfigPath(filepath.Join(root, module))
		v.SetEnvPrefix(module)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("load %s for module %s: %w", source, module, ErrModuleNotFound)
			}
			return nil, fmt.Errorf("load %s for module %s: %w", source, module, err)
		}

		logger.Debugf("Loaded %s", v.ConfigFileUsed())
		return &ModuleConfig{source: source, module: module, values: v}, nil
	}
}

func validModuleName(module string) bool {
	if module == "" || module == "." || module == ".." {
		return false
	}
	return !strings.ContainsAny(module, `/\`)
}

// cacheEntry 单个模块的缓存项
type cacheEntry struct {
	once   sync.Once
	loaded atomic.Bool
	config *ModuleConfig
	err    error
}

// ConfigCache 模块配置缓存，每个模块的加载器最多执行一次
type ConfigCache struct {
	source  string
	loader  Loader
	entries map[string]*cacheEntry
	mutex   sync.Mutex
}

// NewConfigCache 创建配置缓存
func NewConfigCache(source string, loader Loader) *ConfigCache {
	return &ConfigCache{
		source:  source,
		loader:  loader,
		entries: make(map[string]*cacheEntry),
	}
}

// Source 配置源标识
func (c *ConfigCache) Source() string {
	return c.source
}

// Module 获取整个模块配置，首次访问时加载
func (c *ConfigCache) Module(module string) (*ModuleConfig, error) {
	if module == "" {
		module = DefaultModule
	}

	c.mutex.Lock()
	entry, exists := c.entries[module]
	if !exists {
		entry = &cacheEntry{}
		c.entries[module] = entry
	}
	c.mutex.Unlock()

	entry.once.Do(func() {
		logger.Debugf("Loading %s for module: %s", c.source, module)
		entry.config, entry.err = c.loader(c.source, module)
		if entry.err == nil && entry.config == nil {
			entry.err = fmt.Errorf("load %s for module %s: loader returned nil", c.source, module)
		}
		if entry.err != nil {
			logger.Errorf("Failed to load %s for module %s: %v", c.source, module, entry.err)
			entry.config = nil
		}
		entry.loaded.Store(true)
	})

	return entry.config, entry.err
}

// Get 读取模块配置项，key 为空时返回整个配置对象
func (c *ConfigCache) Get(key, module string) (any, error) {
	cfg, err := c.Module(module)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return cfg, nil
	}
	return cfg.Get(key)
}

// Loaded 已完成加载（含失败）的模块列表
func (c *ConfigCache) Loaded() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	modules := make([]string, 0, len(c.entries))
	for module, entry := range c.entries {
		if entry.loaded.Load() {
			modules = append(modules, module)
		}
	}
	sort.Strings(modules)
	return modules
}
