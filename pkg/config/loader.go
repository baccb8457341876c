package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const objectKeyPrefix = "id"

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Environment variable settings
	v.SetEnvPrefix("EXTREMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadInputs overlays the two key=value input files onto cfg. Missing files
// are skipped. Keys starting with "id" form the object list in file order
// and replace any configured objects.
func LoadInputs(cfg *Config, serverFile, flagsFile string) error {
	if serverFile != "" {
		in, found, err := readInputFile(serverFile)
		if err != nil {
			return fmt.Errorf("failed to read server file: %w", err)
		}
		if found {
			in.overlay("server", &cfg.Monitor.Server)
			in.overlay("username", &cfg.Monitor.Username)
			in.overlay("passhash", &cfg.Monitor.Passhash)
		}
	}

	if flagsFile != "" {
		in, found, err := readInputFile(flagsFile)
		if err != nil {
			return fmt.Errorf("failed to read flags file: %w", err)
		}
		if found {
			in.overlay("avg", &cfg.Query.Avg)
			in.overlay("sdate", &cfg.Query.StartDate)
			in.overlay("edate", &cfg.Query.EndDate)
			in.overlay("max", &cfg.Query.Max)
			in.overlay("thr", &cfg.Query.Thr)

			if objects := in.withPrefix(objectKeyPrefix); len(objects) > 0 {
				cfg.Objects = objects
			}
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "traffic-extrema")
	v.SetDefault("app.mode", "production")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "10s")

	// Monitor defaults
	v.SetDefault("monitor.scheme", "https")
	v.SetDefault("monitor.timeout", "60s")
	v.SetDefault("monitor.insecure_skip_verify", false)

	// Query defaults
	v.SetDefault("query.max", "1")
	v.SetDefault("query.thr", "0")

	// Runner defaults
	v.SetDefault("runner.concurrency", 1)

	// Output defaults
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.echo", true)

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "5m")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Content-Type", "X-Trace-ID"})
}
