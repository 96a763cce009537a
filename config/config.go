// Package config loads pacer's environment-driven defaults via Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Accepted values for the interactive-detection override.
const (
	InteractiveAuto   = "auto"
	InteractiveAlways = "always"
	InteractiveNever  = "never"
)

const defaultWidth = 40

// Settings captures every knob pacer reads from the environment.
type Settings struct {
	// Backend forces a registered backend by name; empty means auto-select.
	Backend string `mapstructure:"backend"`
	// Disable turns rendering off entirely.
	Disable bool `mapstructure:"disable"`
	// Width is the preferred bar width in columns.
	Width int `mapstructure:"width"`
	// Interactive overrides terminal detection: auto, always, or never.
	Interactive string `mapstructure:"interactive"`
}

// FromEnv reads PACER_* variables, falling back to defaults. Unparseable or
// invalid values degrade to the defaults rather than failing, since backend
// resolution must never break iteration.
func FromEnv() Settings {
	v := viper.New()
	v.SetEnvPrefix("PACER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Typed getters cast env strings; Unmarshal would reject "true" for a
	// bool field.
	s := Settings{
		Backend:     v.GetString("backend"),
		Disable:     v.GetBool("disable"),
		Width:       v.GetInt("width"),
		Interactive: strings.ToLower(v.GetString("interactive")),
	}
	if err := s.Validate(); err != nil {
		return defaultSettings()
	}
	return s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "")
	v.SetDefault("disable", false)
	v.SetDefault("width", defaultWidth)
	v.SetDefault("interactive", InteractiveAuto)
}

func defaultSettings() Settings {
	return Settings{Width: defaultWidth, Interactive: InteractiveAuto}
}

// Validate enforces reasonable limits.
func (s Settings) Validate() error {
	if s.Width <= 0 {
		return fmt.Errorf("width must be > 0")
	}
	switch s.Interactive {
	case InteractiveAuto, InteractiveAlways, InteractiveNever:
	default:
		return fmt.Errorf("interactive must be %q, %q, or %q", InteractiveAuto, InteractiveAlways, InteractiveNever)
	}
	return nil
}
