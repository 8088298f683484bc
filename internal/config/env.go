package config

import "strings"

// loadFromEnv overrides config from TASKFLOW_* variables and NO_COLOR.
func loadFromEnv(cfg *Config, getenv func(string) string) {
	set := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	set("TASKFLOW_STORAGE", &cfg.Storage)
	set("TASKFLOW_DATA_FILE", &cfg.DataFile)
	set("TASKFLOW_KEY", &cfg.Key)
	set("TASKFLOW_VALIDATION", &cfg.Validation)
	set("TASKFLOW_REDIS_URL", &cfg.Redis.URL)
	set("TASKFLOW_REDIS_PREFIX", &cfg.Redis.Prefix)
	set("TASKFLOW_LOG_LEVEL", &cfg.Log.Level)
	set("TASKFLOW_LOG_FORMAT", &cfg.Log.Format)
	set("TASKFLOW_LOG_FILE", &cfg.Log.File)
	set("TASKFLOW_THEME", &cfg.Theme)

	// https://no-color.org: any non-empty value disables color.
	if getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	if v := getenv("TASKFLOW_NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
