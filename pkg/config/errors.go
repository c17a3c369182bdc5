package config

import "errors"

// ErrConfig is the sentinel wrapped by every configuration validation
// failure (spec §7 "configuration errors ... reported pre-run").
var ErrConfig = errors.New("hypar: configuration error")
