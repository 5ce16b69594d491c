package models

import "fmt"

// Theme is the closed set of pastel color schemes. Anything outside
// the three constants is rejected at the parse boundary, so handlers
// and records never carry an unknown theme key.
type Theme string

const (
	ThemePink  Theme = "pink"
	ThemeBlue  Theme = "blue"
	ThemeGreen Theme = "green"
)

type ThemeConfig struct {
	Accent   string `json:"accent"`
	ColorTag string `json:"color_tag"`
}

var themeConfigs = map[Theme]ThemeConfig{
	ThemePink:  {Accent: "#FF4D6D", ColorTag: "bg-pink-400"},
	ThemeBlue:  {Accent: "#4A90E2", ColorTag: "bg-blue-400"},
	ThemeGreen: {Accent: "#4CAF50", ColorTag: "bg-green-400"},
}

func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if _, ok := themeConfigs[t]; !ok {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

func (t Theme) Valid() bool {
	_, ok := themeConfigs[t]
	return ok
}

func (t Theme) Config() ThemeConfig {
	if cfg, ok := themeConfigs[t]; ok {
		return cfg
	}
	return themeConfigs[ThemePink]
}
