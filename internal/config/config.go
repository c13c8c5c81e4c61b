package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the remote store settings and per-tab collections.
type Config struct {
	BaseURL        string
	UpdateMethod   string
	RequestTimeout time.Duration
	LogFile        string

	Contacts Collection
	Products Collection
	Shopping Collection
}

// Collection binds one tab to a remote collection. An empty Name keeps the
// tab in memory.
type Collection struct {
	Name    string
	ListKey string
	Page    int
}

// Remote reports whether the tab syncs with the remote store.
func (c Collection) Remote() bool {
	return c.Name != ""
}

const (
	defaultConfigPath   = "~/.config/listkeeper/config.toml"
	defaultLogFile      = "~/.local/state/listkeeper/listkeeper.log"
	defaultBaseURL      = "http://127.0.0.1:3000"
	defaultUpdateMethod = "PUT"
	defaultShopping     = "compras"
)

type rawCollection struct {
	Collection *string `toml:"collection"`
	ListKey    string  `toml:"list_key"`
	Page       int     `toml:"page"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		UpdateMethod: defaultUpdateMethod,
		LogFile:      mustExpand(defaultLogFile),
		Shopping:     Collection{Name: defaultShopping},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL        string        `toml:"base_url"`
		UpdateMethod   string        `toml:"update_method"`
		RequestTimeout string        `toml:"request_timeout"`
		LogFile        *string       `toml:"log_file"`
		Contacts       rawCollection `toml:"contacts"`
		Products       rawCollection `toml:"products"`
		Shopping       rawCollection `toml:"shopping"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}

	if v := strings.ToUpper(strings.TrimSpace(raw.UpdateMethod)); v != "" {
		if v != "PUT" && v != "PATCH" {
			return Config{}, fmt.Errorf("parse config: update_method must be PUT or PATCH, got %q", raw.UpdateMethod)
		}
		cfg.UpdateMethod = v
	}

	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout < 0 {
			return Config{}, fmt.Errorf("parse config: invalid request_timeout %q", raw.RequestTimeout)
		}
		cfg.RequestTimeout = timeout
	}

	// An explicit empty log_file disables logging.
	if raw.LogFile != nil {
		cfg.LogFile = ""
		if v := strings.TrimSpace(*raw.LogFile); v != "" {
			cfg.LogFile = mustExpand(v)
		}
	}

	cfg.Contacts = raw.Contacts.resolve(cfg.Contacts)
	cfg.Products = raw.Products.resolve(cfg.Products)
	cfg.Shopping = raw.Shopping.resolve(cfg.Shopping)

	return cfg, nil
}

// resolve applies the raw table over def. A collection key that is present
// but blank turns the tab into an in-memory one.
func (r rawCollection) resolve(def Collection) Collection {
	out := def
	if r.Collection != nil {
		out.Name = strings.Trim(strings.TrimSpace(*r.Collection), "/")
	}
	out.ListKey = strings.TrimSpace(r.ListKey)
	if r.Page > 0 {
		out.Page = r.Page
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
