package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type DBDriver string

const (
	DriverSqlite   DBDriver = "sqlite"
	DriverPostgres DBDriver = "postgres"
)

type DBConfig struct {
	Driver           DBDriver `mapstructure:"driver"`
	ConnectionString string   `mapstructure:"connection_string"`
}

func (config DBConfig) validate() error {
	if config.ConnectionString == "" {
		return fmt.Errorf("missing variable: db connection string")
	}
	if config.Driver != DriverSqlite && config.Driver != DriverPostgres {
		return fmt.Errorf("unsupported db driver %q", config.Driver)
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("db.driver", "DB_DRIVER"); err != nil {
		return err
	}
	return viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING")
}
