package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/OldStager01/traffic-extrema/pkg/validation"
)

func (c *Config) Validate() error {
	var errs error

	// App validation
	if c.App.Name == "" {
		errs = multierr.Append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = multierr.Append(errs, errors.New("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = multierr.Append(errs, errors.New("app.log_level must be one of: debug, info, warn, error"))
	}

	// Monitor validation
	if c.Monitor.Server == "" {
		errs = multierr.Append(errs, errors.New("monitor.server is required"))
	}
	if c.Monitor.Scheme != "http" && c.Monitor.Scheme != "https" {
		errs = multierr.Append(errs, errors.New("monitor.scheme must be http or https"))
	}
	if c.Monitor.Timeout <= 0 {
		errs = multierr.Append(errs, errors.New("monitor.timeout must be positive"))
	}

	// Query validation
	if err := validation.ValidateAverage(c.Query.Avg); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("query.avg: %w", err))
	}
	if err := validation.ValidateDateRange(c.Query.StartDate, c.Query.EndDate); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("query.sdate/edate: %w", err))
	}
	if err := validation.ValidateFlag(c.Query.Max); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("query.max: %w", err))
	}
	if err := validation.ValidateFlag(c.Query.Thr); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("query.thr: %w", err))
	}

	// Objects validation
	if len(c.Objects) == 0 {
		errs = multierr.Append(errs, errors.New("at least one object id is required"))
	}
	for i, id := range c.Objects {
		if err := validation.ValidateObjectID(id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("objects[%d]: %w", i, err))
		}
	}

	// Runner validation
	if c.Runner.Concurrency < 1 {
		errs = multierr.Append(errs, errors.New("runner.concurrency must be at least 1"))
	}

	// Output validation
	if c.Output.Dir == "" {
		errs = multierr.Append(errs, errors.New("output.dir is required"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = multierr.Append(errs, errors.New("api.port must be between 1 and 65535"))
	}

	if errs != nil {
		return fmt.Errorf("config validation failed: %w", errs)
	}

	return nil
}
