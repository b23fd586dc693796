package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLabels(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.ChunkSeconds <= 0 {
		return errors.New("transcription.chunk_seconds must be greater than zero")
	}
	if c.Transcription.MaxRetries < 1 {
		return errors.New("transcription.max_retries must be at least 1")
	}
	if c.Transcription.RequestTimeout <= 0 {
		return errors.New("transcription.request_timeout must be greater than zero")
	}
	if !strings.HasPrefix(c.Transcription.BaseURL, "http://") && !strings.HasPrefix(c.Transcription.BaseURL, "https://") {
		return fmt.Errorf("transcription.base_url must be an http(s) URL, got %q", c.Transcription.BaseURL)
	}
	if _, err := language.Parse(c.Transcription.Language); err != nil {
		return fmt.Errorf("transcription.language: unrecognized tag %q", c.Transcription.Language)
	}
	return nil
}

func (c *Config) validateLabels() error {
	if !c.Labels.Enabled {
		return nil
	}
	if c.Labels.FirstRole == "" || c.Labels.SecondRole == "" {
		return errors.New("labels.first_role and labels.second_role must be set when labels.enabled is true")
	}
	if strings.EqualFold(c.Labels.FirstRole, c.Labels.SecondRole) {
		return errors.New("labels.first_role and labels.second_role must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
