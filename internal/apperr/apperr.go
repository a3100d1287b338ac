// Package apperr defines the error kinds the slideshow pipeline reports.
//
// AssetError is recovered per image; EmptyInputError, AudioError and
// ConfigError abort the run before encoding starts.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// AssetError reports an image that could not be decoded or processed.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// EmptyInputError is returned when no usable slide is left to render.
type EmptyInputError struct {
	Skipped int
}

func (e *EmptyInputError) Error() string {
	if e.Skipped > 0 {
		return fmt.Sprintf("no images to build a video from (%d skipped)", e.Skipped)
	}
	return "no images to build a video from"
}

// AudioError reports an audio file that could not be probed or decoded.
type AudioError struct {
	Path string
	Err  error
}

func (e *AudioError) Error() string {
	return fmt.Sprintf("audio %s: %v", e.Path, e.Err)
}

func (e *AudioError) Unwrap() error { return e.Err }

// ConfigError reports an invalid setting or selection.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Configf builds a ConfigError with a formatted reason.
func Configf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err must abort the run. Only asset errors are
// recoverable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var asset *AssetError
	return !errors.As(err, &asset)
}
