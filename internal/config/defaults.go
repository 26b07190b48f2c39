package config

const (
	defaultConfigPath        = "~/.config/anydl/config.toml"
	defaultBaseURL           = "http://localhost:8000"
	defaultSubmitTimeout     = 600
	defaultFetchTimeout      = 120
	defaultHealthTimeout     = 5
	defaultOutputDir         = "~/Downloads/anydl"
	defaultOutputConcurrency = 1
	defaultStateDir          = "~/.local/share/anydl"
	defaultLogDir            = "~/.local/share/anydl/logs"
	defaultHistoryMaxEntries = 500
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	// baseURLEnv overrides backend.base_url when set.
	baseURLEnv = "API_BASE_URL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:       defaultBaseURL,
			SubmitTimeout: defaultSubmitTimeout,
			FetchTimeout:  defaultFetchTimeout,
			HealthTimeout: defaultHealthTimeout,
		},
		Output: Output{
			Dir:         defaultOutputDir,
			Concurrency: defaultOutputConcurrency,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		History: History{
			Enabled:    true,
			MaxEntries: defaultHistoryMaxEntries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
