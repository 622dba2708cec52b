package config

import "time"

// Settingsfile represents the structure of the bmake.yaml settings file.
type Settingsfile struct {
	Version   string            `yaml:"version"`
	Script    string            `yaml:"script"`
	Target    string            `yaml:"target" validate:"excludesall= :"`
	Jobs      int               `yaml:"jobs" validate:"gte=0"`
	Expansion string            `yaml:"expansion" validate:"omitempty,oneof=tree legacy"`
	Output    string            `yaml:"output" validate:"omitempty,oneof=auto tui linear plain quiet"`
	Cache     *bool             `yaml:"cache"`
	Env       map[string]string `yaml:"env" validate:"dive,keys,required,excludesall==,endkeys"`
	Watch     WatchDTO          `yaml:"watch"`
}

// WatchDTO represents the watch section of the settings file.
type WatchDTO struct {
	Patterns []string      `yaml:"patterns" validate:"dive,required"`
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}
