package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName  string
	Env      string // DEV (default), TEST, QA, PROD
	Debug    bool
	TestMode bool
	Build    string

	API struct {
		BaseURL string
		// Timeout of 0 means requests never time out; a stuck request
		// stays in flight until the backend answers.
		Timeout time.Duration
	}

	Session struct {
		Path string // sqlite file holding the persisted principal
	}

	RollbarToken string
}

// NewConfig loads configuration from defaults, an optional config/.env.<env>
// file and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Registra")
	conf.SetDefault("apiBaseUrl", "http://localhost:8080/api")
	conf.SetDefault("apiTimeout", time.Duration(0))
	conf.SetDefault("sessionPath", filepath.Join(".", "registra-session.db"))
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("build", "dev")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	cfg := &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
	}
	cfg.API.BaseURL = strings.TrimRight(conf.GetString("apiBaseUrl"), "/")
	cfg.API.Timeout = conf.GetDuration("apiTimeout")
	cfg.Session.Path = conf.GetString("sessionPath")
	return cfg
}
