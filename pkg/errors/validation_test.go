package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/clustering.svg", false},
		{"valid absolute", "/tmp/tree.png", false},
		{"valid with dots", "../shared/tree.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://api.example.com", false},
		{"http", "http://localhost:8000", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLeague(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"upper", "EPL", false},
		{"lower", "laliga", false},
		{"with dash", "bundesliga-2", false},

		{"empty", "", true},
		{"space", "serie a", true},
		{"slash", "epl/../x", true},
		{"leading dash", "-epl", true},
		{"too long", "abcdefghijklmnopqrstuvwxyz0123456789", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLeague(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLeague(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeason(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty is current", "", false},
		{"year", "2024", false},
		{"short range", "2024-25", false},
		{"long range", "2024/2025", false},

		{"two digits", "24", true},
		{"words", "last", true},
		{"trailing", "2024-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeason(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeason(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTeamName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Arsenal", false},
		{"accented", "Atlético Madrid", false},
		{"punctuation", "Brighton & Hove Albion", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"control", "Ars\x01enal", true},
		{"too long", string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTeamName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTeamName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
