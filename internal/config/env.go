package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Env struct {
	AppAddr     string        `yaml:"app_addr" validate:"required"`
	GinMode     string        `yaml:"gin_mode" validate:"omitempty,oneof=debug release test"`
	Storage     string        `yaml:"storage_driver" validate:"required,oneof=mysql memory"`
	DB          DBConfig      `yaml:"database"`
	JWTSecret   string        `yaml:"jwt_secret" validate:"required,min=16"`
	JWTTTL      time.Duration `yaml:"jwt_ttl" validate:"gt=0"`
	CORSOrigins []string      `yaml:"cors_allowed_origins"`
}

type DBConfig struct {
	Host     string `yaml:"host" validate:"required_if=Enabled true"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" validate:"required_if=Enabled true"`
	Enabled  bool   `yaml:"-"`
}

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads config.yml (or CONFIG_FILE) when present, applies environment
// overrides and defaults, then validates the result.
func LoadEnv() (Env, error) {
	var env Env

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		path = "config.yml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &env); err != nil {
			return Env{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Env{}, fmt.Errorf("read %s: %w", path, err)
	}

	overrideString(&env.AppAddr, "APP_ADDR")
	overrideString(&env.GinMode, "GIN_MODE")
	overrideString(&env.Storage, "STORAGE_DRIVER")
	overrideString(&env.DB.Host, "DB_HOST")
	overrideString(&env.DB.Port, "DB_PORT")
	overrideString(&env.DB.User, "DB_USER")
	overrideString(&env.DB.Password, "DB_PASSWORD")
	overrideString(&env.DB.Name, "DB_NAME")
	overrideString(&env.JWTSecret, "JWT_SECRET")
	if v := strings.TrimSpace(os.Getenv("JWT_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Env{}, fmt.Errorf("JWT_TTL: %w", err)
		}
		env.JWTTTL = d
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		env.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}

	applyDefaults(&env)

	if err := validator.New().Struct(env); err != nil {
		return Env{}, err
	}
	return env, nil
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(env *Env) {
	if env.AppAddr == "" {
		env.AppAddr = ":8080"
	}
	if env.Storage == "" {
		env.Storage = StorageMySQL
	}
	if env.DB.Host == "" {
		env.DB.Host = "127.0.0.1"
	}
	if env.DB.Port == "" {
		env.DB.Port = "3306"
	}
	if env.DB.User == "" {
		env.DB.User = "root"
	}
	if env.DB.Name == "" {
		env.DB.Name = "bus_reservation"
	}
	env.DB.Enabled = env.Storage == StorageMySQL
	if env.JWTSecret == "" && env.GinMode != "release" {
		env.JWTSecret = "dev-secret-change-me-please"
	}
	if env.JWTTTL == 0 {
		env.JWTTTL = 240 * time.Hour
	}
	if len(env.CORSOrigins) == 0 {
		env.CORSOrigins = defaultCORSOrigins
	}
}
