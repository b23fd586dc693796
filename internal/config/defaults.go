package config

const (
	defaultWorkDir        = "~/.local/share/examscribe/work"
	defaultLogDir         = "~/.local/share/examscribe/logs"
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultModel          = "whisper-1"
	defaultLanguage       = "en"
	defaultChunkSeconds   = 60
	defaultMaxRetries     = 5
	defaultRequestTimeout = 120
	defaultFirstRole      = "Examiner"
	defaultSecondRole     = "Patient"
	defaultNtfyTimeout    = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Transcription: Transcription{
			BaseURL:        defaultBaseURL,
			Model:          defaultModel,
			Language:       defaultLanguage,
			ChunkSeconds:   defaultChunkSeconds,
			MaxRetries:     defaultMaxRetries,
			RequestTimeout: defaultRequestTimeout,
		},
		Labels: Labels{
			Enabled:    true,
			FirstRole:  defaultFirstRole,
			SecondRole: defaultSecondRole,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
