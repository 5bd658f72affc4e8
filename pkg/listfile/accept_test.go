package listfile

import (
	"strings"
	"testing"
)

func TestExtensionSetAccept(t *testing.T) {
	t.Parallel()

	accept, err := NewExtensionSet("jpg", ".jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		entry string
		want  bool
	}{
		{"http://h/a.jpg", true},
		{"http://h/a.jpeg", true},
		{"a.jpg", true},
		{"a.JPG", false},
		{"a.png", false},
		{"noextension", false},
		{"http://h/dir.jpg/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if got := accept.Accept(tt.entry); got != tt.want {
				t.Errorf("Accept(%q) = %v, want %v", tt.entry, got, tt.want)
			}
		})
	}
}

func TestExtensionSetString(t *testing.T) {
	t.Parallel()

	accept, err := NewExtensionSet("jpg", "png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := accept.String(); !strings.Contains(got, "jpg") || !strings.Contains(got, "png") {
		t.Fatalf("String() = %q, want both extensions named", got)
	}
}

func TestNewExtensionSetInvalid(t *testing.T) {
	t.Parallel()

	if _, err := NewExtensionSet(); err == nil {
		t.Fatal("expected error for empty set")
	}
	if _, err := NewExtensionSet("jpg", "."); err == nil {
		t.Fatal("expected error for blank extension")
	}
}

func TestPatternAccept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		entry   string
		want    bool
	}{
		{"*.jpg", "http://h/path/a.jpg", true},
		{"*.jpg", "a.jpg", true},
		{"*.jpg", "http://h/a.png", false},
		{"*", "anything at all", true},
		{"http://h/*", "http://h/deep/a.jpg", true},
		{"*.jp?g", "a.jpxg", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.entry, func(t *testing.T) {
			p, err := NewPattern(tt.pattern)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.Accept(tt.entry); got != tt.want {
				t.Errorf("Accept(%q) = %v, want %v", tt.entry, got, tt.want)
			}
		})
	}
}

func TestNewPatternInvalid(t *testing.T) {
	t.Parallel()

	if _, err := NewPattern("[unclosed"); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
