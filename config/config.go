package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host       string     `envconfig:"HOST" mapstructure:"host"`
	Port       string     `envconfig:"PORT" mapstructure:"port"`
	Prefix     string     `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode       Mode       `envconfig:"MODE" mapstructure:"mode"`
	Mysql      Mysql      `mapstructure:"mysql"`
	Redis      Redis      `mapstructure:"redis"`
	JWT        JWT        `mapstructure:"jwt"`
	Log        Log        `mapstructure:"log"`
	Sentry     Sentry     `mapstructure:"sentry"`
	Attendance Attendance `mapstructure:"attendance"`
	RateLimit  RateLimit  `envconfig:"RATE_LIMIT" mapstructure:"rate_limit"`
}

type Mysql struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"`
}

type Log struct {
	FilePath   string `envconfig:"FILE_PATH" mapstructure:"file_path"`
	Level      string `envconfig:"LEVEL" mapstructure:"level"`             // debug, info, warn, error
	MaxSize    int    `envconfig:"MAX_SIZE" mapstructure:"max_size"`       // MB
	MaxBackups int    `envconfig:"MAX_BACKUPS" mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `envconfig:"MAX_AGE" mapstructure:"max_age"`         // days
	Compress   bool   `envconfig:"COMPRESS" mapstructure:"compress"`
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
}

// Attendance holds the training schedule used to derive attendance status.
type Attendance struct {
	Timezone        string `envconfig:"TIMEZONE" mapstructure:"timezone"`
	StartTime       string `envconfig:"START_TIME" mapstructure:"start_time"` // HH:mm
	EndTime         string `envconfig:"END_TIME" mapstructure:"end_time"`     // HH:mm
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SECONDS" mapstructure:"cache_ttl_seconds"`
	DefaultLocale   string `envconfig:"DEFAULT_LOCALE" mapstructure:"default_locale"`
}

type RateLimit struct {
	RPS   float64 `envconfig:"RPS" mapstructure:"rps"`
	Burst int     `envconfig:"BURST" mapstructure:"burst"`
}
