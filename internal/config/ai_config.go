package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

// AIConfig configures interview question generation. An empty key disables it.
type AIConfig struct {
	Key                  string  `mapstructure:"key"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
	QuestionsPerCategory int     `mapstructure:"questions_per_category"`
}

func (config AIConfig) Enabled() bool {
	return config.Key != ""
}

func (config AIConfig) validate() error {
	if !config.Enabled() {
		return nil
	}

	var invalid []string

	if config.Model == "" {
		invalid = append(invalid, "model")
	}
	if config.MaxRequestsPerMinute <= 0 {
		invalid = append(invalid, "max_requests_per_minute")
	}
	if config.MaxRequestsPerDay <= 0 {
		invalid = append(invalid, "max_requests_per_day")
	}
	if config.QuestionsPerCategory <= 0 {
		invalid = append(invalid, "questions_per_category")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("missing or invalid variables: %s", strings.Join(invalid, ", "))
	}

	return nil
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	bindings := map[string]string{
		"ai.key":                     "AI_KEY",
		"ai.model":                   "AI_MODEL",
		"ai.max_requests_per_minute": "AI_MAX_REQUESTS_PER_MINUTE",
		"ai.max_requests_per_day":    "AI_MAX_REQUESTS_PER_DAY",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
