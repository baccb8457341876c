package config

import (
	"time"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Query   QueryConfig   `mapstructure:"query"`
	Objects []string      `mapstructure:"objects"`
	Runner  RunnerConfig  `mapstructure:"runner"`
	Output  OutputConfig  `mapstructure:"output"`
	API     APIConfig     `mapstructure:"api"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MonitorConfig locates the monitoring server and the account used against it
type MonitorConfig struct {
	Scheme             string        `mapstructure:"scheme"`
	Server             string        `mapstructure:"server"`
	Username           string        `mapstructure:"username"`
	Passhash           string        `mapstructure:"passhash"`
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

func (m MonitorConfig) BaseURL() string {
	return m.Scheme + "://" + m.Server
}

// QueryConfig holds the flag values as written in the flags file.
// Max and Thr enable their feature only when exactly "1".
type QueryConfig struct {
	Avg       string `mapstructure:"avg"`
	StartDate string `mapstructure:"sdate"`
	EndDate   string `mapstructure:"edate"`
	Max       string `mapstructure:"max"`
	Thr       string `mapstructure:"thr"`
}

func (q QueryConfig) ComputeMax() bool {
	return q.Max == "1"
}

func (q QueryConfig) CheckThresholds() bool {
	return q.Thr == "1"
}

type RunnerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	Echo bool   `mapstructure:"echo"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}
