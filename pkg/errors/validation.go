package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates an output path given on the command line or in an
// API request. Absolute paths are allowed; control characters are not.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// leagueRegex matches league codes such as "EPL", "laliga" or "bundesliga-2".
var leagueRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,31}$`)

// ValidateLeague validates a league code sent to the prediction backend.
func ValidateLeague(league string) error {
	if league == "" {
		return New(ErrCodeInvalidInput, "league cannot be empty")
	}
	if !leagueRegex.MatchString(league) {
		return New(ErrCodeInvalidInput, "invalid league code: %q", league)
	}
	return nil
}

// seasonRegex accepts "2024" and "2024-25" / "2024/2025".
var seasonRegex = regexp.MustCompile(`^\d{4}([-/](\d{2}|\d{4}))?$`)

// ValidateSeason validates a season identifier. An empty season means the
// current one and is accepted.
func ValidateSeason(season string) error {
	if season == "" {
		return nil
	}
	if !seasonRegex.MatchString(season) {
		return New(ErrCodeInvalidInput, "invalid season: %q (want YYYY or YYYY-YY)", season)
	}
	return nil
}

// ValidateTeamName validates a team display name.
// Names must be non-empty, at most 128 characters and free of control
// characters.
func ValidateTeamName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "team name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "team name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "team name contains invalid control characters")
		}
	}
	return nil
}
