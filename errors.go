package main

import (
	"errors"
	"fmt"
	"time"
)

// ErrStoreUnavailable means the series file exists but could not be read or
// parsed. Callers must not treat this as an empty series: an empty series
// allows a capture, an unreadable one aborts the invocation.
var ErrStoreUnavailable = errors.New("series store unavailable")

// DecodeError reports a payload that could not be decoded to a raster image
// or that the OCR engine refused. Not retried; surfaced to the uploader.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// WrongVariantError reports a screenshot uploaded to the wrong pipeline,
// detected by a missing marker word. Hint names the pipeline the screenshot
// likely belongs to.
type WrongVariantError struct {
	Variant string
	Hint    string
}

func (e *WrongVariantError) Error() string {
	return fmt.Sprintf("screenshot does not match the %s dashboard: %s", e.Variant, e.Hint)
}

// InsufficientTokensError reports OCR output with too few numeric tokens to
// populate a record. Surfaced with a re-upload suggestion.
type InsufficientTokensError struct {
	Found int
	Want  int
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("found %d numeric tokens, need %d; try a clearer screenshot", e.Found, e.Want)
}

// CooldownError is the gate's policy denial: a record was appended too
// recently. Remaining is the wait left before the next capture is allowed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("a capture was recorded recently; wait %s before uploading again",
		e.Remaining.Round(time.Minute))
}
