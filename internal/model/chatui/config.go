package chatui

import "strings"

const (
	// CreateSessionEndpoint is where the widget fetches its client secret.
	CreateSessionEndpoint = "/api/create-session"
	Placeholder           = "Posez votre question juridique..."
	Greeting              = "Recherchez dans la jurisprudence"
)

// ColorScheme selects the widget palette.
type ColorScheme string

const (
	SchemeLight ColorScheme = "light"
	SchemeDark  ColorScheme = "dark"
)

// ParseColorScheme maps a query value onto a scheme, defaulting to light.
func ParseColorScheme(raw string) ColorScheme {
	if ColorScheme(strings.ToLower(strings.TrimSpace(raw))) == SchemeDark {
		return SchemeDark
	}
	return SchemeLight
}

// Theme mirrors the widget's theme option object.
type Theme struct {
	ColorScheme ColorScheme `json:"colorScheme"`
	Color       ThemeColor  `json:"color"`
	Radius      string      `json:"radius"`
}

type ThemeColor struct {
	Grayscale Grayscale `json:"grayscale"`
	Accent    Accent    `json:"accent"`
}

type Grayscale struct {
	Hue   int `json:"hue"`
	Tint  int `json:"tint"`
	Shade int `json:"shade"`
}

type Accent struct {
	Primary string `json:"primary"`
	Level   int    `json:"level"`
}

// ThemeFor returns the widget theme for scheme.
func ThemeFor(scheme ColorScheme) Theme {
	theme := Theme{
		ColorScheme: SchemeLight,
		Color: ThemeColor{
			Grayscale: Grayscale{Hue: 220, Tint: 6, Shade: -4},
			Accent:    Accent{Primary: "#0f172a", Level: 1},
		},
		Radius: "round",
	}
	if scheme == SchemeDark {
		theme.ColorScheme = SchemeDark
		theme.Color.Grayscale.Shade = -1
		theme.Color.Accent.Primary = "#f1f5f9"
	}
	return theme
}

// ShellConfig is everything the chat page needs to mount the widget.
type ShellConfig struct {
	WorkflowID            string          `json:"workflowId"`
	CreateSessionEndpoint string          `json:"createSessionEndpoint"`
	Greeting              string          `json:"greeting"`
	Placeholder           string          `json:"placeholder"`
	StarterPrompts        []StarterPrompt `json:"starterPrompts"`
	Theme                 Theme           `json:"theme"`
}

// NewShellConfig assembles the chat shell configuration.
func NewShellConfig(workflowID string, prompts PromptStore, scheme ColorScheme) ShellConfig {
	var items []StarterPrompt
	if prompts != nil {
		items = prompts.List()
	}
	if items == nil {
		items = []StarterPrompt{}
	}
	return ShellConfig{
		WorkflowID:            workflowID,
		CreateSessionEndpoint: CreateSessionEndpoint,
		Greeting:              Greeting,
		Placeholder:           Placeholder,
		StarterPrompts:        items,
		Theme:                 ThemeFor(scheme),
	}
}
