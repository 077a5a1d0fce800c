package config

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
	"strings"
)

type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	AI       AIConfig       `mapstructure:"ai"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Plans    []PlanConfig   `mapstructure:"plans"`
}

type StatsConfig struct {
	Schedule string `mapstructure:"schedule"`
}

type PlanConfig struct {
	Name     string `mapstructure:"name"`
	JobLimit int    `mapstructure:"job_limit"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.redirect_delay", "1300ms")
	viper.SetDefault("db.driver", string(DriverSqlite))
	viper.SetDefault("ai.model", "gemini-1.5-flash")
	viper.SetDefault("ai.questions_per_category", 5)
	viper.SetDefault("notifier.channel", "career-events")
	viper.SetDefault("stats.schedule", "*/5 * * * *")

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables() error {
	var errs []error

	binders := map[string]interface{ bindEnvironmentVariables() error }{
		"LoggerConfig":   LoggerConfig{},
		"ServerConfig":   ServerConfig{},
		"DBConfig":       DBConfig{},
		"AIConfig":       AIConfig{},
		"NotifierConfig": NotifierConfig{},
	}
	for name, binder := range binders {
		if err := binder.bindEnvironmentVariables(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if err := viper.BindEnv("stats.schedule", "STATS_SCHEDULE"); err != nil {
		errs = append(errs, fmt.Errorf("StatsConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Server.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ServerConfig: %w", err))
	}

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.AI.validate(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	for i, plan := range config.Plans {
		if strings.TrimSpace(plan.Name) == "" || plan.JobLimit < 0 {
			errs = append(errs, fmt.Errorf("plans[%d]: name is required and job_limit must not be negative", i))
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
