package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once by Load and
// passed down explicitly to whatever needs it.
type Config struct {
	ServerAddr string

	// Input and output locations for the batch pipeline.
	HistoryCSV      string
	SeasonalityJSON string
	ModelJSON       string

	GeminiAPIKey       string
	GeminiModel        string
	PredictTimeout     time.Duration
	FallbackPrediction int

	// Optional. Documents are mirrored to Postgres when set.
	DatabaseURL string
	// Optional. /api/v1 requires a bearer token when set.
	JWTSecret string
	// Optional cron spec for reloading the history table while serving.
	ReloadSchedule string

	LogLevel  string
	LogFormat string
	LogOutput string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads .env (if present), an optional config.yaml and the process
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is fine; the environment is used directly.
	dotenvErr := godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{
		ServerAddr:         v.GetString("SERVER_ADDR"),
		HistoryCSV:         v.GetString("HISTORY_CSV"),
		SeasonalityJSON:    v.GetString("SEASONALITY_JSON"),
		ModelJSON:          v.GetString("MODEL_JSON"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		PredictTimeout:     v.GetDuration("PREDICT_TIMEOUT"),
		FallbackPrediction: v.GetInt("FALLBACK_PREDICTION"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		ReloadSchedule:     v.GetString("RELOAD_SCHEDULE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		LogOutput:          v.GetString("LOG_OUTPUT"),
		EnvFileLoaded:      dotenvErr == nil,
	}

	// GOOGLE_API_KEY is accepted as an alias.
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = v.GetString("GOOGLE_API_KEY")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDR", ":3000")
	v.SetDefault("HISTORY_CSV", "data/history.csv")
	v.SetDefault("SEASONALITY_JSON", "data/seasonality.json")
	v.SetDefault("MODEL_JSON", "data/ml_model.json")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("PREDICT_TIMEOUT", 30*time.Second)
	v.SetDefault("FALLBACK_PREDICTION", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
}
