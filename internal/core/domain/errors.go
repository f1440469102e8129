package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a library lookup came back empty.
var ErrNotFound = errors.New("domain: not found")

// ErrNoConfidentMatch indicates fuzzy resolution did not clear the
// confidence threshold for any candidate.
var ErrNoConfidentMatch = errors.New("no confident match")

// ErrNothingPlaying indicates a playback command arrived with no episode loaded.
var ErrNothingPlaying = errors.New("nothing is playing")

// NoConfidentMatchError carries the query that failed to resolve.
type NoConfidentMatchError struct {
	Query string
}

func (e NoConfidentMatchError) Error() string {
	if e.Query == "" {
		return ErrNoConfidentMatch.Error()
	}
	return fmt.Sprintf("no confident match found for %q", e.Query)
}

func (e NoConfidentMatchError) Is(target error) bool {
	return target == ErrNoConfidentMatch
}
