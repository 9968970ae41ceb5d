package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"tasknest/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	DefaultSession        = "default"
	DefaultColor          = "#b624ff"

	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Toggle    string `toml:"toggle"`
	Pin       string `toml:"pin"`
	Delete    string `toml:"delete"`
	Detail    string `toml:"detail"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	NextField string `toml:"next_field"`
	PrevField string `toml:"prev_field"`
}

type Config struct {
	DBPath           string `toml:"db_path"`
	Session          string `toml:"session"`
	DraftBackend     string `toml:"draft_backend"`
	DraftTTL         string `toml:"draft_ttl"`
	RedisAddr        string `toml:"redis_addr"`
	LogFile          string `toml:"log_file"`
	LogLevel         string `toml:"log_level"`
	NameMax          int    `toml:"name_max"`
	DescriptionMax   int    `toml:"description_max"`
	DefaultColor     string `toml:"default_color"`
	EnableCategories bool   `toml:"enable_categories"`
	Keys             Keymap `toml:"keys"`
}

// ResolveConfigPath honours $TODO_CONFIG and otherwise uses the user
// config directory, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv("TODO_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "tasknest", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

// ApplyEnv loads .env from the working directory if present and lets
// TODO_* variables override the file.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if v := os.Getenv("TODO_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TODO_SESSION"); v != "" {
		c.Session = v
	}
	if v := os.Getenv("TODO_DRAFT_BACKEND"); v != "" {
		c.DraftBackend = v
	}
	if v := os.Getenv("TODO_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TODO_NAME_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.NameMax = n
	}
	return nil
}

// TTL parses DraftTTL; an empty or invalid value means one day.
func (c Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.DraftTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func (c *Config) fillDefaults(dir string) {
	def := defaultConfig(dir)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Session == "" {
		c.Session = def.Session
	}
	if c.DraftBackend == "" {
		c.DraftBackend = def.DraftBackend
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.NameMax <= 0 {
		c.NameMax = def.NameMax
	}
	if c.DescriptionMax <= 0 {
		c.DescriptionMax = def.DescriptionMax
	}
	if c.DefaultColor == "" {
		c.DefaultColor = def.DefaultColor
	}
	if c.Keys.NextField == "" {
		c.Keys.NextField = def.Keys.NextField
	}
	if c.Keys.PrevField == "" {
		c.Keys.PrevField = def.Keys.PrevField
	}
	if c.Keys.Pin == "" {
		c.Keys.Pin = def.Keys.Pin
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:           filepath.Join(dir, DefaultDBName),
		Session:          DefaultSession,
		DraftBackend:     BackendSQLite,
		DraftTTL:         "24h",
		RedisAddr:        "localhost:6379",
		LogFile:          filepath.Join(dir, DefaultLogName),
		LogLevel:         "info",
		NameMax:          task.DefaultNameMax,
		DescriptionMax:   task.DefaultDescriptionMax,
		DefaultColor:     DefaultColor,
		EnableCategories: true,
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Toggle:    " ",
			Pin:       "p",
			Delete:    "d",
			Detail:    "enter",
			Confirm:   "ctrl+s",
			Cancel:    "esc",
			NextField: "tab",
			PrevField: "shift+tab",
		},
	}
}
