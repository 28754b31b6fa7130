package config

import "errors"

// Error variables for config loading.
var (
	ErrFileNotFound    = errors.New("config file not found")
	ErrFileRead        = errors.New("cannot read config file")
	ErrInvalid         = errors.New("invalid config file")
	ErrDocsDirEmpty    = errors.New("docs_dir cannot be empty")
	ErrTimeoutNegative = errors.New("timeout_seconds cannot be negative")
)
