package config

import (
	"os"
	"strings"
)

// normalize expands paths, applies environment fallbacks, and fills zero
// values with repository defaults so Validate sees a complete config.
func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkDir, err = normalizeDir(c.Paths.WorkDir, defaultWorkDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = normalizeDir(c.Paths.LogDir, defaultLogDir); err != nil {
		return err
	}
	if dir := strings.TrimSpace(c.Paths.OutputDir); dir != "" {
		if c.Paths.OutputDir, err = expandPath(dir); err != nil {
			return err
		}
	} else {
		c.Paths.OutputDir = ""
	}

	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" {
		c.Transcription.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	c.Transcription.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcription.BaseURL), "/")
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = defaultBaseURL
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultLanguage
	}
	if c.Transcription.ChunkSeconds == 0 {
		c.Transcription.ChunkSeconds = defaultChunkSeconds
	}
	if c.Transcription.MaxRetries == 0 {
		c.Transcription.MaxRetries = defaultMaxRetries
	}
	if c.Transcription.RequestTimeout == 0 {
		c.Transcription.RequestTimeout = defaultRequestTimeout
	}

	c.Labels.FirstRole = strings.TrimSpace(c.Labels.FirstRole)
	if c.Labels.FirstRole == "" {
		c.Labels.FirstRole = defaultFirstRole
	}
	c.Labels.SecondRole = strings.TrimSpace(c.Labels.SecondRole)
	if c.Labels.SecondRole == "" {
		c.Labels.SecondRole = defaultSecondRole
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}

func normalizeDir(value, fallback string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	return expandPath(trimmed)
}
