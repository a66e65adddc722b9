package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "revenue", false},
		{"unicode", "Umsatz €", false},

		{"too long", strings.Repeat("a", 300), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"#fff", false},
		{"#FFFFFF", false},
		{"#11223344", false},
		{"white", false},
		{"rgb(10, 20, 30)", false},
		{"rgba(10,20,30,0.5)", false},

		{"#ff", true},
		{"#gggggg", true},
		{"url(#x)", true},
		{`red" onload="x`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScene) {
				t.Errorf("code = %v", GetCode(err))
			}
		})
	}
}

func TestValidateValueFormat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"%.1f", false},
		{"%g", false},
		{"$%.2f", false},
		{"%.0f%%", false},
		{"%8.3e units", false},

		{"%d", true},
		{"%s", true},
		{"plain", true},
		{"%.1f and %.1f", true},
		{"%.1f %s", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateValueFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateValueFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "scenes/sales.yaml", false},
		{"absolute", "/tmp/scene.json", false},
		{"dots in name", "my..scene.json", false},

		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"nested traversal", "a/../../b", true},
		{"null byte", "scene\x00.json", true},
		{"too long", strings.Repeat("a", 600), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"https", "https://example.com", nil, false},
		{"http", "http://localhost:8080", nil, false},
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},

		{"empty", "", nil, true},
		{"ftp", "ftp://example.com", nil, true},
		{"redis as http", "redis://localhost", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
