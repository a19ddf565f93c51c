package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀取  需要使用讀寫鎖
*/
var configSingleton *ConfigSingleton
var muonce sync.Once

type ConfigSingleton struct {
	Config    *Config
	mu        sync.RWMutex
	listeners []func(*Config)
}

type Config struct {
	Env           string        `mapstructure:"ENV"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ShutdownGrace time.Duration `mapstructure:"SHUTDOWN_GRACE"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	LogPretty     bool          `mapstructure:"LOG_PRETTY"`

	// session 狀態
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	RedisPoolSize   int           `mapstructure:"REDIS_POOL_SIZE"`
	RedisPrefix     string        `mapstructure:"REDIS_PREFIX"`
	LocalStoreSweep time.Duration `mapstructure:"LOCAL_STORE_SWEEP"`

	// 目錄與搜尋快取
	CatalogSource    string `mapstructure:"CATALOG_SOURCE"`
	CatalogDir       string `mapstructure:"CATALOG_DIR"`
	SeedCatalog      bool   `mapstructure:"SEED_CATALOG"`
	SearchCacheSize  int64  `mapstructure:"SEARCH_CACHE_SIZE"`
	MemcachedServers string `mapstructure:"MEMCACHED_SERVERS"`

	DbName string `mapstructure:"POSTGRES_DB"`
	DbHost string `mapstructure:"POSTGRES_HOST"`
	DbPort string `mapstructure:"POSTGRES_PORT"`
	DbUser string `mapstructure:"POSTGRES_USER"`
	DbPas  string `mapstructure:"POSTGRES_PASSWORD"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	PaymentLatency time.Duration `mapstructure:"PAYMENT_LATENCY"`
	PaymentTimeout time.Duration `mapstructure:"PAYMENT_TIMEOUT"`
	PaymentOutcome string        `mapstructure:"PAYMENT_OUTCOME"`

	RateLimitCapacity int           `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitRate     float64       `mapstructure:"RATE_LIMIT_RATE"`
	RateLimitRefill   time.Duration `mapstructure:"RATE_LIMIT_REFILL"`

	MessageReplyDelay time.Duration `mapstructure:"MESSAGE_REPLY_DELAY"`
}

const (
	CatalogSourceFile = "file"
	CatalogSourceDB   = "db"
	CatalogSourceNone = "none"
)

var defaults = map[string]any{
	"ENV":                 "development",
	"SERVER_HOST":         "0.0.0.0",
	"SERVER_PORT":         "8080",
	"SHUTDOWN_GRACE":      "10s",
	"LOG_LEVEL":           "info",
	"LOG_PRETTY":          false,
	"SESSION_TTL":         "720h",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"REDIS_POOL_SIZE":     10,
	"REDIS_PREFIX":        "eventro",
	"LOCAL_STORE_SWEEP":   "1m",
	"CATALOG_SOURCE":      CatalogSourceFile,
	"CATALOG_DIR":         "./data",
	"SEED_CATALOG":        false,
	"SEARCH_CACHE_SIZE":   500,
	"MEMCACHED_SERVERS":   "",
	"POSTGRES_DB":         "",
	"POSTGRES_HOST":       "",
	"POSTGRES_PORT":       "5432",
	"POSTGRES_USER":       "",
	"POSTGRES_PASSWORD":   "",
	"KAFKA_BROKERS":       "",
	"KAFKA_GROUP_ID":      "eventro-order-projector",
	"PAYMENT_LATENCY":     "2s",
	"PAYMENT_TIMEOUT":     "10s",
	"PAYMENT_OUTCOME":     "success",
	"RATE_LIMIT_CAPACITY": 5,
	"RATE_LIMIT_RATE":     1.0,
	"RATE_LIMIT_REFILL":   "1s",
	"MESSAGE_REPLY_DELAY": "2500ms",
}

func (c *Config) HasRedis() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DbHost) != "" && strings.TrimSpace(c.DbName) != ""
}

func (c *Config) HasKafka() bool {
	return len(c.Brokers()) > 0
}

func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) MemcachedAddrs() []string {
	return splitList(c.MemcachedServers)
}

func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func splitList(s string) []string {
	res := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

// OnChange 設定檔更新後依序呼叫
func OnChange(fn func(*Config)) {
	initConfig()
	configSingleton.mu.Lock()
	defer configSingleton.mu.Unlock()
	configSingleton.listeners = append(configSingleton.listeners, fn)
}

func initConfig() {
	muonce.Do(func() {
		configSingleton = &ConfigSingleton{}
		v := viper.New()
		cf, err := LoadConfig(v, ConfigPath())
		if err != nil {
			log.Fatal().Err(err).Msg("error read config")
		}
		configSingleton.Config = cf

		// 沒有設定檔時只使用環境變數，不需要 watch
		if v.ConfigFileUsed() == "" {
			return
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			cf, err := unmarshal(v)
			if err != nil {
				log.Error().Err(err).Str("file", e.Name).Msg("failed to reload config file")
				return
			}
			configSingleton.mu.Lock()
			configSingleton.Config = cf
			listeners := append([]func(*Config){}, configSingleton.listeners...)
			configSingleton.mu.Unlock()

			log.Info().Str("file", e.Name).Msg("config reloaded")
			for _, fn := range listeners {
				fn(cf)
			}
		})
		v.WatchConfig()
	})
}

// ConfigPath CONFIG_FILE 未設定時使用工作目錄下的 .env
func ConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_FILE")); p != "" {
		return p
	}
	return "./.env"
}

/*
LoadConfig 讀取設定檔與環境變數，環境變數優先
設定檔不存在時不視為錯誤，只使用預設值與環境變數
單純回傳錯誤  由外部決定要不要Fatal
*/
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	return cf, nil
}
