package config

import (
	"fmt"
	"strings"
)

// normalize expands path fields and fills empty values with defaults so the
// rest of the program never sees a tilde or a zero setting.
func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	if err := c.normalizeIdentity(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"inbox_dir", &c.Paths.InboxDir, DefaultInboxDir},
		{"staging_dir", &c.Paths.StagingDir, DefaultStagingDir},
		{"state_dir", &c.Paths.StateDir, DefaultStateDir},
		{"log_dir", &c.Paths.LogDir, DefaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := ExpandPath(*field.value)
		if err != nil {
			return fmt.Errorf("expand %s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.Threshold == 0 {
		c.Matching.Threshold = DefaultMatchThreshold
	}
	if c.Matching.MinFileSize < 0 {
		c.Matching.MinFileSize = 0
	}
	if c.Matching.MaxDepth <= 0 {
		c.Matching.MaxDepth = DefaultMaxScanDepth
	}
}

func (c *Config) normalizeIdentity() error {
	if c.Identity.TrivialMinMinutes <= 0 {
		c.Identity.TrivialMinMinutes = DefaultTrivialMinMinutes
	}
	if strings.TrimSpace(c.Identity.AliasFile) != "" {
		expanded, err := ExpandPath(c.Identity.AliasFile)
		if err != nil {
			return fmt.Errorf("expand alias_file: %w", err)
		}
		c.Identity.AliasFile = expanded
	}
	return nil
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = DefaultWorkers
	}
	if c.Pipeline.TransferConcurrency <= 0 {
		c.Pipeline.TransferConcurrency = DefaultTransferConcurrency
	}
	if c.Pipeline.RetryAttempts <= 0 {
		c.Pipeline.RetryAttempts = DefaultRetryAttempts
	}
	if c.Pipeline.RetryBaseSeconds <= 0 {
		c.Pipeline.RetryBaseSeconds = DefaultRetryBaseSeconds
	}
	if c.Pipeline.RetryMaxSeconds <= 0 {
		c.Pipeline.RetryMaxSeconds = DefaultRetryMaxSeconds
	}
}

func (c *Config) normalizeServices() {
	c.Standardizer.BaseURL = strings.TrimRight(strings.TrimSpace(c.Standardizer.BaseURL), "/")
	if c.Standardizer.TimeoutSeconds <= 0 {
		c.Standardizer.TimeoutSeconds = DefaultServiceTimeoutSeconds
	}
	c.WeekInference.BaseURL = strings.TrimRight(strings.TrimSpace(c.WeekInference.BaseURL), "/")
	if c.WeekInference.TimeoutSeconds <= 0 {
		c.WeekInference.TimeoutSeconds = DefaultServiceTimeoutSeconds
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = DefaultNotifyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
