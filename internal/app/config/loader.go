package config

import (
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// MustInitConfig initializes configuration from .env file or environment variables.
// If configFile exists, it loads from the file. Otherwise, it automatically binds
// environment variables based on the Config struct's mapstructure tags.
func MustInitConfig(configFile string) Config {
	var (
		vpr = viper.New()
		cfg Config
	)

	setDefaults(vpr)

	vpr.AutomaticEnv()

	vpr.SetConfigFile(configFile)
	vpr.SetConfigType("env")

	if err := vpr.ReadInConfig(); err != nil {
		slog.Warn("config file not found or cannot be read, using environment variables",
			slog.String("file", configFile),
			slog.String("error", err.Error()))
	} else {
		slog.Info("config file loaded successfully", slog.String("file", configFile))

		vpr.WatchConfig()
	}

	// Automatically bind all environment variables from Config struct
	bindEnvFromStruct(vpr)

	// Unmarshal configuration into struct
	if err := vpr.Unmarshal(&cfg); err != nil {
		slog.Error("cannot unmarshal config", slog.String("error", err.Error()))
		panic(err)
	}

	return cfg
}

// setDefaults registers fallbacks so the service boots with only vendor credentials set.
func setDefaults(vpr *viper.Viper) {
	defaults := map[string]any{
		"LOG_LEVEL":                      "info",
		"APP_ENV":                        "production",
		"HTTP_PORT":                      8080,
		"HTTP_TIMEOUT":                   "60s",
		"CORS_ALLOWED_ORIGINS":           "http://localhost:3000",
		"DB_MAX_OPEN_CONNECTIONS":        25,
		"DB_MAX_IDLE_CONNECTIONS":        5,
		"DB_MAX_CONNECTIONS_LIFETIME":    "5m",
		"DB_MAX_CONNECTION_IDLE_TIME":    "1m",
		"REDIS_ADDR":                     "localhost:6379",
		"REDIS_TIMEOUT":                  "3s",
		"DUFFEL_BASE_URL":                "https://api.duffel.com",
		"DUFFEL_VERSION":                 "v2",
		"DUFFEL_TIMEOUT":                 "30s",
		"DUFFEL_RATE_LIMIT":              10,
		"DUFFEL_MAX_OFFERS":              20,
		"DUFFEL_SEARCH_CACHE_EXPIRATION": "5m",
		"DUFFEL_LOCK_TIMEOUT":            "10s",
		"AIRLABS_BASE_URL":               "https://airlabs.co/api/v9",
		"AIRLABS_TIMEOUT":                "5s",
		"ANTHROPIC_BASE_URL":             "https://api.anthropic.com",
		"ANTHROPIC_MODEL":                "claude-3-5-sonnet-latest",
		"ANTHROPIC_MAX_TOKENS":           1024,
		"ANTHROPIC_TIMEOUT":              "45s",
		"MEM0_BASE_URL":                  "https://api.mem0.ai",
		"MEM0_TIMEOUT":                   "5s",
		"OCR_SPACE_BASE_URL":             "https://api.ocr.space",
		"OCR_TIMEOUT":                    "30s",
		"OCR_MAX_UPLOAD_BYTES":           10 << 20,
		"NEXT_PUBLIC_BASE_URL":           "http://localhost:8080",
		"TOOLS_TIMEOUT":                  "35s",
		"AIRLINE_CACHE_TTL":              "24h",
		"AIRLINE_FETCH_CONCURRENCY":      4,
		"CHAT_RATE_LIMIT":                30,
		"SEARCH_RATE_LIMIT":              60,
	}

	for key, value := range defaults {
		vpr.SetDefault(key, value)
	}
}

// bindEnvFromStruct automatically binds environment variables based on mapstructure tags using reflection
func bindEnvFromStruct(vpr *viper.Viper) {
	bindEnvFromType(vpr, reflect.TypeOf(Config{}))
}

func bindEnvFromType(vpr *viper.Viper, t reflect.Type) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" || tag == "-" {
			// If it's an embedded struct without a tag, recurse
			if field.Anonymous && field.Type.Kind() == reflect.Struct {
				bindEnvFromType(vpr, field.Type)
			}
			continue
		}

		parts := strings.Split(tag, ",")
		envVar := parts[0]
		isSquash := false
		for _, p := range parts {
			if strings.TrimSpace(p) == "squash" {
				isSquash = true
				break
			}
		}

		if isSquash && field.Type.Kind() == reflect.Struct {
			bindEnvFromType(vpr, field.Type)
			continue
		}

		if envVar != "" {
			_ = vpr.BindEnv(envVar)

			// If it's an array of struct, check if the value is a JSON string and unmarshal it
			if (field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct) ||
				field.Type.Kind() == reflect.Struct {
				val := vpr.Get(envVar)
				if s, ok := val.(string); ok && s != "" {
					var jsonVal interface{}
					if err := json.Unmarshal([]byte(s), &jsonVal); err == nil {
						vpr.Set(envVar, jsonVal)
					}
				}
			}
		}
	}
}
