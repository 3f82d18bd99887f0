package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 进程级配置
type Config struct {
	// 调试和日志配置
	DebugEnabled   bool   `mapstructure:"debug_enabled"`
	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
	VerboseLogging bool   `mapstructure:"verbose_logging"`

	// 目录配置
	ConfigRoot string `mapstructure:"config_root"`
	LangRoot   string `mapstructure:"lang_root"`
	LogRoot    string `mapstructure:"log_root"`

	// 模块配置
	DefaultModule string `mapstructure:"default_module"`

	// HTTP配置
	ListenAddr         string `mapstructure:"listen_addr"`
	SiteURL            string `mapstructure:"site_url"`
	ReadTimeout        int    `mapstructure:"read_timeout"`
	WriteTimeout       int    `mapstructure:"write_timeout"`
	MaxRequestBodySize int    `mapstructure:"max_request_body_size"`
	SessionCookie      string `mapstructure:"session_cookie"`
}

var (
	config     *Config
	configOnce sync.Once
)

// GetConfig 获取配置实例
func GetConfig() *Config {
	configOnce.Do(func() {
		config = Load()
	})
	return config
}

// Load 加载配置：默认值、.env、环境变量、YAML 依次覆盖
func Load() *Config {
	loadEnvFile()

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)
	loadFromYAML(cfg, "data/config")

	return cfg
}

// ReadTimeoutDuration 读超时
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration 写超时
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// loadEnvFile 加载.env文件
func loadEnvFile() {
	if err := godotenv.Load(); err != nil {
		// 没有 .env 时尝试 env.example，都不存在则使用默认配置
		_ = godotenv.Load("env.example")
	}
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	// 调试和日志配置
	cfg.DebugEnabled = false
	cfg.LogLevel = "info"
	cfg.LogFile = ""
	cfg.VerboseLogging = false

	// 目录配置
	cfg.ConfigRoot = "data/modules"
	cfg.LangRoot = "data/modules"
	cfg.LogRoot = "data"

	// 模块配置
	cfg.DefaultModule = "App"

	// HTTP配置
	cfg.ListenAddr = ":8080"
	cfg.SiteURL = ""
	cfg.ReadTimeout = 10
	cfg.WriteTimeout = 10
	cfg.MaxRequestBodySize = 4 * 1024 * 1024
	cfg.SessionCookie = "micromvc_session"
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv(cfg *Config) {
	// 调试和日志配置
	if val := getEnvBool("DEBUG_ENABLED"); val != nil {
		cfg.DebugEnabled = *val
	}
	if val := getEnvString("LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := getEnvString("LOG_FILE"); val != "" {
		cfg.LogFile = val
	}
	if val := getEnvBool("VERBOSE_LOGGING"); val != nil {
		cfg.VerboseLogging = *val
	}

	// 目录配置
	if val := getEnvString("CONFIG_ROOT"); val != "" {
		cfg.ConfigRoot = val
	}
	if val := getEnvString("LANG_ROOT"); val != "" {
		cfg.LangRoot = val
	}
	if val := getEnvString("LOG_ROOT"); val != "" {
		cfg.LogRoot = val
	}

	// 模块配置
	if val := getEnvString("DEFAULT_MODULE"); val != "" {
		cfg.DefaultModule = val
	}

	// HTTP配置
	if val := getEnvString("LISTEN_ADDR"); val != "" {
		cfg.ListenAddr = val
	}
	if val := getEnvString("SITE_URL"); val != "" {
		cfg.SiteURL = val
	}
	if val := getEnvInt("READ_TIMEOUT"); val != nil {
		cfg.ReadTimeout = *val
	}
	if val := getEnvInt("WRITE_TIMEOUT"); val != nil {
		cfg.WriteTimeout = *val
	}
	if val := getEnvInt("MAX_REQUEST_BODY_SIZE"); val != nil {
		cfg.MaxRequestBodySize = *val
	}
	if val := getEnvString("SESSION_COOKIE"); val != "" {
		cfg.SessionCookie = val
	}
}

// loadFromYAML 从YAML文件加载配置，存在时覆盖环境变量
func loadFromYAML(cfg *Config, dir string) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err == nil {
		_ = v.Unmarshal(cfg)
	}
}

// 辅助函数
func getEnvString(key string) string {
	return os.Getenv(key)
}

func getEnvBool(key string) *bool {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &b
}

func getEnvInt(key string) *int {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &i
}
