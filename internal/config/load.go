package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads every layer and parses args with flags registered on fset.
// The flag set's remaining arguments are left in fset.Args().
func Load(fset *flag.FlagSet, args []string) (*Config, error) {
	userDir, _ := os.UserConfigDir()
	if userDir != "" {
		userDir = filepath.Join(userDir, "taskflow")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return load(fset, args, sources{userDir: userDir, projectDir: wd, getenv: os.Getenv})
}

type sources struct {
	userDir    string
	projectDir string
	getenv     func(string) string
}

func load(fset *flag.FlagSet, args []string, src sources) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// Flags are parsed first so -config can pick the file, but applied last.
	fv := registerFlags(fset)
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if src.userDir != "" {
		if path := existing(filepath.Join(src.userDir, FileName)); path != "" {
			if err := loadConfigFile(cfg, path); err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", path, err)
			}
		}
	}

	project := fv.config
	if project == "" {
		project = findProjectConfigFile(src.projectDir)
	} else if _, err := os.Stat(project); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if project != "" {
		if err := loadConfigFile(cfg, project); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", project, err)
		}
	}

	loadFromEnv(cfg, src.getenv)
	fv.apply(cfg, fset)

	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.Log.File = expandPath(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

func findProjectConfigFile(dir string) string {
	for _, name := range []string{FileName, "." + FileName} {
		if path := existing(filepath.Join(dir, name)); path != "" {
			return path
		}
	}
	return ""
}

func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return path // let the decoder report it
		}
		return ""
	}
	return path
}

// expandPath expands ~/ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
