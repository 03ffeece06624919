package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI's resolved configuration: flags and
// MATCHINGO_*-prefixed environment variables first, an optional YAML file
// overriding both if -config is given.
type Config struct {
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ReserveOrders             int `yaml:"reserve_orders"`
	ReservePriceLevelsPerSide int `yaml:"reserve_price_levels_per_side"`
}

var (
	configFile    = flag.String("config", "", "Path to an optional YAML config file overriding flags/env")
	input         = flag.String("input", "", "Path to a CSV request file (defaults to stdin)")
	output        = flag.String("output", "", "Path to a CSV event output file (defaults to stdout)")
	logLevel      = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat     = flag.String("log_format", "pretty", "Log format: json, pretty")
	reserveOrders = flag.Int("reserve_orders", 0, "Pre-size the order index/arenas for this many live orders")
	reserveLevels = flag.Int("reserve_price_levels", 0, "Pre-size each side's price-level map/heap for this many levels")
)

// LoadConfig parses flags, layers MATCHINGO_* environment overrides on top
// via viper, and finally applies an optional YAML file if -config was given.
func LoadConfig() (*Config, error) {
	flag.Parse()

	v := viper.New()
	v.SetDefault("INPUT", *input)
	v.SetDefault("OUTPUT", *output)
	v.SetDefault("LOG_LEVEL", *logLevel)
	v.SetDefault("LOG_FORMAT", *logFormat)
	v.SetDefault("RESERVE_ORDERS", *reserveOrders)
	v.SetDefault("RESERVE_PRICE_LEVELS", *reserveLevels)
	v.SetEnvPrefix("MATCHINGO")
	v.AutomaticEnv()

	cfg := &Config{
		Input:                     v.GetString("INPUT"),
		Output:                    v.GetString("OUTPUT"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		LogFormat:                 v.GetString("LOG_FORMAT"),
		ReserveOrders:             v.GetInt("RESERVE_ORDERS"),
		ReservePriceLevelsPerSide: v.GetInt("RESERVE_PRICE_LEVELS"),
	}

	if *configFile != "" {
		yamlFile, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return cfg, nil
}
