// Package config loads kiosk settings from the environment and an optional
// kiosk.toml file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Keys
const (
	KeyDevicePath        = "device_path"
	KeyWriterPath        = "writer_path"
	KeyServerAddress     = "server_address"
	KeyDBPath            = "db_path"
	KeyLogLevel          = "log_level"
	KeyLogFile           = "log_file"
	KeyDebug             = "debug"
	KeySerializeDispatch = "serialize_dispatch"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. KIOSK_DEVICE_PATH.
const EnvPrefix = "KIOSK"

// Config holds the resolved settings.
type Config struct {
	DevicePath        string
	WriterPath        string
	ServerAddress     string
	DBPath            string
	LogLevel          string
	LogFile           string
	Debug             bool
	SerializeDispatch bool
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// SERVER_ADDRESS is still honoured for relay setups that predate the prefix.
	_ = v.BindEnv(KeyServerAddress, EnvPrefix+"_SERVER_ADDRESS", "SERVER_ADDRESS")

	v.SetDefault(KeyDevicePath, "/dev/usb/lp0")
	v.SetDefault(KeyWriterPath, "./lpwriter")
	v.SetDefault(KeyServerAddress, "localhost:9100")
	v.SetDefault(KeyDBPath, "data.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeySerializeDispatch, false)

	v.SetConfigName("kiosk")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/kiosk")
	return v
}

// Load reads the config file if one exists and resolves all settings.
// If file is non-empty it must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DevicePath:        v.GetString(KeyDevicePath),
		WriterPath:        v.GetString(KeyWriterPath),
		ServerAddress:     v.GetString(KeyServerAddress),
		DBPath:            v.GetString(KeyDBPath),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFile:           v.GetString(KeyLogFile),
		Debug:             v.GetBool(KeyDebug),
		SerializeDispatch: v.GetBool(KeySerializeDispatch),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DevicePath) == "" {
		return errors.New("device_path must not be empty")
	}
	if strings.TrimSpace(c.WriterPath) == "" {
		return errors.New("writer_path must not be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}
