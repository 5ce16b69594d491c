package models

import "testing"

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{"pink", ThemePink, false},
		{"blue", ThemeBlue, false},
		{"green", ThemeGreen, false},
		{"", "", true},
		{"purple", "", true},
		{"PINK", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseTheme(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestThemeConfig(t *testing.T) {
	tests := []struct {
		theme    Theme
		accent   string
		colorTag string
	}{
		{ThemePink, "#FF4D6D", "bg-pink-400"},
		{ThemeBlue, "#4A90E2", "bg-blue-400"},
		{ThemeGreen, "#4CAF50", "bg-green-400"},
	}

	for _, tc := range tests {
		cfg := tc.theme.Config()
		if cfg.Accent != tc.accent {
			t.Errorf("%s: expected accent %q, got %q", tc.theme, tc.accent, cfg.Accent)
		}
		if cfg.ColorTag != tc.colorTag {
			t.Errorf("%s: expected color tag %q, got %q", tc.theme, tc.colorTag, cfg.ColorTag)
		}
	}
}

func TestUnknownThemeFallsBackToPink(t *testing.T) {
	cfg := Theme("sepia").Config()
	if cfg.Accent != ThemePink.Config().Accent {
		t.Errorf("Expected pink fallback, got accent %q", cfg.Accent)
	}
}
