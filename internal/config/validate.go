package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var problems []error
	problems = append(problems, c.validatePaths()...)
	problems = append(problems, c.validateMatching()...)
	problems = append(problems, c.validatePipeline()...)
	problems = append(problems, c.validateServices()...)
	problems = append(problems, c.validateLogging()...)
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(problems...))
}

func (c *Config) validatePaths() []error {
	var problems []error
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		problems = append(problems, errors.New("paths.inbox_dir must be set"))
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		problems = append(problems, errors.New("paths.staging_dir must be set"))
	}
	if c.Paths.InboxDir != "" && c.Paths.InboxDir == c.Paths.StagingDir {
		problems = append(problems, errors.New("paths.inbox_dir and paths.staging_dir must differ"))
	}
	return problems
}

func (c *Config) validateMatching() []error {
	var problems []error
	if c.Matching.Threshold <= 0 || c.Matching.Threshold > 1 {
		problems = append(problems, fmt.Errorf("matching.threshold must be in (0, 1], got %v", c.Matching.Threshold))
	}
	if c.Matching.MaxDepth < 1 || c.Matching.MaxDepth > 16 {
		problems = append(problems, fmt.Errorf("matching.max_depth must be between 1 and 16, got %d", c.Matching.MaxDepth))
	}
	return problems
}

func (c *Config) validatePipeline() []error {
	var problems []error
	if c.Pipeline.Workers < MinWorkers || c.Pipeline.Workers > MaxWorkers {
		problems = append(problems, fmt.Errorf("pipeline.workers must be between %d and %d, got %d", MinWorkers, MaxWorkers, c.Pipeline.Workers))
	}
	if c.Pipeline.TransferConcurrency < 1 || c.Pipeline.TransferConcurrency > 16 {
		problems = append(problems, fmt.Errorf("pipeline.transfer_concurrency must be between 1 and 16, got %d", c.Pipeline.TransferConcurrency))
	}
	if c.Pipeline.RetryMaxSeconds < c.Pipeline.RetryBaseSeconds {
		problems = append(problems, errors.New("pipeline.retry_max_seconds must not be less than retry_base_seconds"))
	}
	return problems
}

func (c *Config) validateServices() []error {
	var problems []error
	for name, url := range map[string]string{
		"standardizer.base_url":   c.Standardizer.BaseURL,
		"week_inference.base_url": c.WeekInference.BaseURL,
	} {
		if url == "" {
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			problems = append(problems, fmt.Errorf("%s must start with http:// or https://", name))
		}
	}
	return problems
}

func (c *Config) validateLogging() []error {
	var problems []error
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level))
	}
	return problems
}
