package color

import (
	"strings"
	"testing"
)

func TestNewColor(t *testing.T) {
	testColor := NewColor("\033[31m") // Red
	result := testColor("ERROR")
	expected := "\033[31mERROR\033[0m"

	if result != expected {
		t.Errorf("NewColor() = %q, want %q", result, expected)
	}
}

func TestPredefinedColors(t *testing.T) {
	tests := []struct {
		name      string
		colorFunc Color
		input     string
		expected  string
	}{
		{"Red", Red, "ERROR", "\033[31mERROR\033[0m"},
		{"Yellow", Yellow, "WARN", "\033[33mWARN\033[0m"},
		{"Dim", Dim, "DEBUG", "\033[2mDEBUG\033[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.colorFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}

func TestColorResetHandling(t *testing.T) {
	// Colors must reset so they do not bleed into following output.
	redText := Red("ERROR")
	yellowText := Yellow("WARN")

	if !strings.HasSuffix(redText, resetCode) {
		t.Error("Red text does not end with reset code")
	}
	if !strings.HasSuffix(yellowText, resetCode) {
		t.Error("Yellow text does not end with reset code")
	}

	if !strings.HasPrefix(redText, redCode) {
		t.Error("Red text does not start with red code")
	}
	if !strings.HasPrefix(yellowText, yellowCode) {
		t.Error("Yellow text does not start with yellow code")
	}
}
