package config

import "flag"

type flagValues struct {
	config     string
	storage    string
	dataFile   string
	key        string
	validation string
	redisURL   string
	logLevel   string
	logFile    string
	theme      string
	noColor    bool
}

// registerFlags defines the global flags on fs.
func registerFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.config, "config", "", "Path to a config file (replaces ./"+FileName+")")
	fs.StringVar(&v.storage, "storage", "", "Storage backend: file, memory or redis")
	fs.StringVar(&v.dataFile, "file", "", "Data file for the file backend (default "+DefaultDataFile+")")
	fs.StringVar(&v.key, "key", "", "Storage key (default "+DefaultKey+")")
	fs.StringVar(&v.validation, "validation", "", "Stored value validation: off, warn or strict")
	fs.StringVar(&v.redisURL, "redis-url", "", "Redis URL or host:port,password=...,ssl=true")
	fs.StringVar(&v.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&v.logFile, "log-file", "", "Append logs to this file")
	fs.StringVar(&v.theme, "theme", "", "Color theme: classic, neon or mono")
	fs.BoolVar(&v.noColor, "no-color", false, "Disable colors")
	return v
}

// apply copies the flags that were given explicitly.
func (v *flagValues) apply(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "storage":
			cfg.Storage = v.storage
		case "file":
			cfg.DataFile = v.dataFile
		case "key":
			cfg.Key = v.key
		case "validation":
			cfg.Validation = v.validation
		case "redis-url":
			cfg.Redis.URL = v.redisURL
		case "log-level":
			cfg.Log.Level = v.logLevel
		case "log-file":
			cfg.Log.File = v.logFile
		case "theme":
			cfg.Theme = v.theme
		case "no-color":
			cfg.NoColor = v.noColor
		}
	})
}
