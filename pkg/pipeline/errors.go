package pipeline

import (
	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
)

// Sentinel errors for pipeline validation and empty results.
var (
	errVaultRequired     = apperrors.New(apperrors.ErrCodeVaultNotFound, "vault path is required")
	errNegativeThreshold = apperrors.New(apperrors.ErrCodeInvalidThreshold, "threshold must not be negative")
)

// NoMatchesError builds the reportable empty-result error: a normal
// outcome the caller surfaces as a notice, not a failure.
func NoMatchesError(tag string) error {
	return apperrors.New(apperrors.ErrCodeNoMatches, "no documents tagged %s", tag)
}

// IsNoMatches reports whether err is the empty-result condition.
func IsNoMatches(err error) bool {
	return apperrors.Is(err, apperrors.ErrCodeNoMatches)
}
