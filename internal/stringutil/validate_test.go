package stringutil

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "valid simple email", input: "user@example.com", want: true},
		{name: "valid with dots", input: "first.last@example.com", want: true},
		{name: "valid with plus", input: "user+tag@example.com", want: true},
		{name: "valid with subdomain", input: "user@sub.example.com", want: true},
		{name: "valid with percent", input: "user%name@example.com", want: true},
		{name: "valid with hyphen in domain", input: "user@my-domain.com", want: true},
		{name: "missing at sign", input: "userexample.com", want: false},
		{name: "missing domain", input: "user@", want: false},
		{name: "missing local part", input: "@example.com", want: false},
		{name: "missing TLD", input: "user@example", want: false},
		{name: "single char TLD", input: "user@example.c", want: false},
		{name: "empty string", input: "", want: false},
		{name: "spaces", input: "user @example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.input)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "valid lowercase", input: "123e4567-e89b-12d3-a456-426614174000", want: true},
		{name: "valid uppercase", input: "123E4567-E89B-12D3-A456-426614174000", want: true},
		{name: "missing hyphens", input: "123e4567e89b12d3a456426614174000", want: false},
		{name: "too short", input: "123e4567-e89b-12d3-a456-42661417", want: false},
		{name: "empty string", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidUUID(tt.input)
			if got != tt.want {
				t.Errorf("IsValidUUID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "valid date", input: "2024-01-15", want: true},
		{name: "has time component", input: "2024-01-15T00:00:00Z", want: false},
		{name: "wrong separator", input: "2024/01/15", want: false},
		{name: "empty string", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidDate(tt.input)
			if got != tt.want {
				t.Errorf("IsValidDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "valid with Z", input: "2024-01-15T10:30:00Z", want: true},
		{name: "valid with offset", input: "2024-01-15T10:30:00+02:00", want: true},
		{name: "date only", input: "2024-01-15", want: false},
		{name: "empty string", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidDateTime(tt.input)
			if got != tt.want {
				t.Errorf("IsValidDateTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidURI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "https URI", input: "https://example.com/path", want: true},
		{name: "custom scheme", input: "urn://example", want: true},
		{name: "relative path", input: "/pets/1", want: false},
		{name: "empty string", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidURI(tt.input)
			if got != tt.want {
				t.Errorf("IsValidURI(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
