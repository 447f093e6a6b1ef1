package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Meta         Meta         `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	RateLimit    RateLimit    `mapstructure:",squash"`
	Cache        Cache        `mapstructure:",squash"`
	Retry        Retry        `mapstructure:",squash"`
	TokenRefresh TokenRefresh `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL        string `mapstructure:"meta_base_url"`
	URL            string `mapstructure:"-"`
	Version        string `mapstructure:"meta_version"`
	AppID          string `mapstructure:"meta_app_id"`
	AppSecret      string `mapstructure:"meta_app_secret"`
	TimeoutSeconds int    `mapstructure:"meta_timeout_seconds"`
	// Escopos exigidos por padrão quando a requisição não declara nenhum
	DefaultScopes []string `mapstructure:"meta_default_scopes"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// RateLimit configura a janela deslizante por credencial
type RateLimit struct {
	Quota          int           `mapstructure:"rate_limit_quota"`
	WindowSeconds  int           `mapstructure:"rate_limit_window_seconds"`
	MaxWaitSeconds int           `mapstructure:"rate_limit_max_wait_seconds"`
	Window         time.Duration `mapstructure:"-"`
	MaxWait        time.Duration `mapstructure:"-"`
}

// Cache configura o cache de respostas do gateway
type Cache struct {
	Enabled    bool          `mapstructure:"cache_enabled"`
	TTLSeconds int           `mapstructure:"cache_ttl_seconds"`
	Capacity   int           `mapstructure:"cache_capacity"`
	TTL        time.Duration `mapstructure:"-"`
}

// Retry configura o executor de tentativas do gateway
type Retry struct {
	MaxAttempts       int           `mapstructure:"retry_max_attempts"`
	BackoffBaseMillis int           `mapstructure:"retry_backoff_base_millis"`
	BackoffMaxMillis  int           `mapstructure:"retry_backoff_max_millis"`
	BackoffBase       time.Duration `mapstructure:"-"`
	BackoffMax        time.Duration `mapstructure:"-"`
}

// TokenRefresh configura o worker de renovação proativa de credenciais
type TokenRefresh struct {
	Enabled       bool `mapstructure:"token_refresh_enabled"`
	IntervalHours int  `mapstructure:"token_refresh_interval_hours"`
	WindowDays    int  `mapstructure:"token_refresh_window_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/adsgateway")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")
	viper.SetDefault("META_TIMEOUT_SECONDS", 180) // Insights em contas grandes pode demorar
	viper.SetDefault("META_DEFAULT_SCOPES", "ads_read")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Limite da janela deslizante por credencial
	viper.SetDefault("RATE_LIMIT_QUOTA", 200)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 3600)
	viper.SetDefault("RATE_LIMIT_MAX_WAIT_SECONDS", 60)

	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("CACHE_CAPACITY", 1000)

	viper.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	viper.SetDefault("RETRY_BACKOFF_BASE_MILLIS", 1000)
	viper.SetDefault("RETRY_BACKOFF_MAX_MILLIS", 30000)

	viper.SetDefault("TOKEN_REFRESH_ENABLED", true)
	viper.SetDefault("TOKEN_REFRESH_INTERVAL_HOURS", 23)
	viper.SetDefault("TOKEN_REFRESH_WINDOW_DAYS", 10)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.RateLimit.Window = time.Duration(config.RateLimit.WindowSeconds) * time.Second
	config.RateLimit.MaxWait = time.Duration(config.RateLimit.MaxWaitSeconds) * time.Second
	config.Cache.TTL = time.Duration(config.Cache.TTLSeconds) * time.Second
	config.Retry.BackoffBase = time.Duration(config.Retry.BackoffBaseMillis) * time.Millisecond
	config.Retry.BackoffMax = time.Duration(config.Retry.BackoffMaxMillis) * time.Millisecond

	for i, scope := range config.Meta.DefaultScopes {
		config.Meta.DefaultScopes[i] = strings.TrimSpace(scope)
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
