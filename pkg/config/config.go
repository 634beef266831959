package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ECOSORT"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "ECOSORT_APP_ENV"
	EnvPort     = "ECOSORT_APP_PORT"
	EnvDBDSN    = "ECOSORT_DB_DSN"
	EnvDBHost   = "ECOSORT_DB_HOST"
	EnvDBUser   = "ECOSORT_DB_USER"
	EnvDBName   = "ECOSORT_DB_NAME"
	EnvRedisURL = "ECOSORT_REDIS_URL"

	EnvBinCounterURL = "ECOSORT_BIN_COUNTER_URL"
	EnvClassifierURL = "ECOSORT_CLASSIFIER_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Geocoder      GeocoderConfig
	Vision        VisionConfig
	Leaderboard   LeaderboardConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECOSORT_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOSORT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ECOSORT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOSORT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ECOSORT_DB_DSN"`
	Driver string `envconfig:"ECOSORT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ECOSORT_DB_HOST"`
	LegacyPort     int    `envconfig:"ECOSORT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ECOSORT_DB_USER"`
	LegacyPassword string `envconfig:"ECOSORT_DB_PASSWORD"`
	LegacyName     string `envconfig:"ECOSORT_DB_NAME"`
	LegacySSLMode  string `envconfig:"ECOSORT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOSORT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOSORT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOSORT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOSORT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOSORT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ECOSORT_REDIS_ADDR"`
	Password     string        `envconfig:"ECOSORT_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOSORT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOSORT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOSORT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOSORT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOSORT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOSORT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOSORT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOSORT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOSORT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOSORT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOSORT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"ECOSORT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"ECOSORT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"ECOSORT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"ECOSORT_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"ECOSORT_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"ECOSORT_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ECOSORT_AUTO_MIGRATE" default:"false"`
}

type GeocoderConfig struct {
	BaseURL   string        `envconfig:"ECOSORT_GEOCODER_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"ECOSORT_GEOCODER_USER_AGENT" default:"ecosort-backend"`
	Timeout   time.Duration `envconfig:"ECOSORT_GEOCODER_TIMEOUT" default:"10s"`
}

type VisionConfig struct {
	BinCounterURL string        `envconfig:"ECOSORT_BIN_COUNTER_URL" required:"true"`
	BinCounterKey string        `envconfig:"ECOSORT_BIN_COUNTER_API_KEY"`
	ClassifierURL string        `envconfig:"ECOSORT_CLASSIFIER_URL" required:"true"`
	ClassifierKey string        `envconfig:"ECOSORT_CLASSIFIER_API_KEY"`
	Timeout       time.Duration `envconfig:"ECOSORT_VISION_TIMEOUT" default:"15s"`
	MinConfidence float64       `envconfig:"ECOSORT_VISION_MIN_CONFIDENCE" default:"0.4"`
}

type LeaderboardConfig struct {
	Limit            int    `envconfig:"ECOSORT_LEADERBOARD_LIMIT" default:"20"`
	PlaceholderImage string `envconfig:"ECOSORT_LEADERBOARD_PLACEHOLDER_IMAGE" default:"https://static.ecosortapp.com/images/profile-placeholder.png"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
