package services

import (
	"errors"
	"fmt"
	"strings"
)

// Failure markers. Every error leaving a stage or producer operation carries
// exactly one of these so callers can classify it with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrExternalTool  = errors.New("external tool error")
	ErrTransient     = errors.New("transient failure")
)

// markers is ordered so that caller-fixable kinds win over engine failures
// when an error chain carries more than one.
var markers = []error{ErrValidation, ErrNotFound, ErrConfiguration, ErrTimeout, ErrExternalTool, ErrTransient}

// Wrap tags err with marker and prefixes it with "stage: operation: message".
// A nil marker means ErrTransient; a nil err yields a leaf error.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinNonEmpty(stage, operation, message)
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// Kind reports the marker carried by err, or ErrTransient when there is none.
func Kind(err error) error {
	if marker, ok := classify(err); ok {
		return marker
	}
	return ErrTransient
}

// Classified reports whether err already carries a marker.
func Classified(err error) bool {
	_, ok := classify(err)
	return ok
}

func classify(err error) (error, bool) {
	if err == nil {
		return nil, false
	}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return marker, true
		}
	}
	return nil, false
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ": ")
}
