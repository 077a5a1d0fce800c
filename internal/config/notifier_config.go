package config

import (
	"github.com/spf13/viper"
)

// NotifierConfig points at the Redis instance that receives publish notifications.
// An empty address disables them.
type NotifierConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	Channel       string `mapstructure:"channel"`
}

func (config NotifierConfig) Enabled() bool {
	return config.RedisAddr != ""
}

func (config NotifierConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("notifier.redis_addr", "REDIS_ADDR"); err != nil {
		return err
	}
	if err := viper.BindEnv("notifier.redis_password", "REDIS_PASSWORD"); err != nil {
		return err
	}
	return viper.BindEnv("notifier.channel", "REDIS_CHANNEL")
}
