package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RedirectDelay  time.Duration `mapstructure:"redirect_delay"`
}

func (config ServerConfig) validate() error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port %d", config.Port)
	}
	if config.RedirectDelay < 0 {
		return fmt.Errorf("redirect_delay must not be negative")
	}
	return nil
}

func (config ServerConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("server.port", "PORT"); err != nil {
		return err
	}
	return viper.BindEnv("server.redirect_delay", "REDIRECT_DELAY")
}
