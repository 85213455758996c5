package config

// Default values applied before any config file is decoded.
const (
	DefaultInboxDir   = "~/rollcall/inbox"
	DefaultStagingDir = "~/rollcall/staging"
	DefaultStateDir   = "~/.local/share/rollcall"
	DefaultLogDir     = "~/.local/share/rollcall/logs"

	DefaultMatchThreshold = 0.8
	DefaultMinFileSize    = 1024
	DefaultMaxScanDepth   = 4

	DefaultTrivialMinMinutes = 5

	DefaultWorkers             = 4
	MinWorkers                 = 2
	MaxWorkers                 = 8
	DefaultTransferConcurrency = 3
	DefaultRetryAttempts       = 3
	DefaultRetryBaseSeconds    = 2
	DefaultRetryMaxSeconds     = 30

	DefaultServiceTimeoutSeconds = 30

	DefaultNotifyTimeoutSeconds = 10

	DefaultLogFormat = "console"
	DefaultLogLevel  = "info"
)

// Default returns a configuration populated with built-in defaults. Path
// fields stay in their tilde form until normalize expands them.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDir:   DefaultInboxDir,
			StagingDir: DefaultStagingDir,
			StateDir:   DefaultStateDir,
			LogDir:     DefaultLogDir,
		},
		Matching: Matching{
			Threshold:   DefaultMatchThreshold,
			MinFileSize: DefaultMinFileSize,
			MaxDepth:    DefaultMaxScanDepth,
		},
		Identity: Identity{
			TrivialMinMinutes: DefaultTrivialMinMinutes,
		},
		Pipeline: Pipeline{
			Workers:             DefaultWorkers,
			TransferConcurrency: DefaultTransferConcurrency,
			RetryAttempts:       DefaultRetryAttempts,
			RetryBaseSeconds:    DefaultRetryBaseSeconds,
			RetryMaxSeconds:     DefaultRetryMaxSeconds,
		},
		Standardizer: Standardizer{
			TimeoutSeconds: DefaultServiceTimeoutSeconds,
		},
		WeekInference: WeekInference{
			TimeoutSeconds: DefaultServiceTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: DefaultNotifyTimeoutSeconds,
			Runs:           true,
			Duplicates:     true,
			Unidentified:   true,
			Errors:         true,
		},
		Logging: Logging{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
	}
}
