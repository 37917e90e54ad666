package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/tagtile/internal/layout"
	"gopkg.in/yaml.v3"
)

// Padding reserves space around the usable area of every screen.
type Padding struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Layout is a named master/stack preset.
type Layout struct {
	Orientation    layout.Orientation `yaml:"orientation"`
	MasterCount    int                `yaml:"master_count"`
	MasterFraction float64            `yaml:"master_fraction"`
	Columns        int                `yaml:"columns"`
}

// Params converts the preset into engine parameters.
func (l Layout) Params() layout.Params {
	return layout.Params{
		MasterCount:    l.MasterCount,
		MasterFraction: l.MasterFraction,
		Columns:        l.Columns,
		Orientation:    l.Orientation,
	}
}

// TagConfig overrides the layout of one virtual desktop.
type TagConfig struct {
	Layout         string              `yaml:"layout,omitempty"`
	Orientation    *layout.Orientation `yaml:"orientation,omitempty"`
	MasterCount    *int                `yaml:"master_count,omitempty"`
	MasterFraction *float64            `yaml:"master_fraction,omitempty"`
	Columns        *int                `yaml:"columns,omitempty"`
}

// Hotkeys maps tag commands to xgbutil key sequences (e.g. "Mod4-t").
// An empty sequence leaves the command unbound.
type Hotkeys struct {
	Tile         string `yaml:"tile"`
	IncMaster    string `yaml:"inc_master"`
	DecMaster    string `yaml:"dec_master"`
	GrowMaster   string `yaml:"grow_master"`
	ShrinkMaster string `yaml:"shrink_master"`
	IncColumns   string `yaml:"inc_columns"`
	DecColumns   string `yaml:"dec_columns"`
	NextLayout   string `yaml:"next_layout"`
	PrevLayout   string `yaml:"prev_layout"`
	Zoom         string `yaml:"zoom"`
}

// Bindings lists the hotkeys with their YAML names, in declaration order.
func (h Hotkeys) Bindings() [][2]string {
	return [][2]string{
		{"tile", h.Tile},
		{"inc_master", h.IncMaster},
		{"dec_master", h.DecMaster},
		{"grow_master", h.GrowMaster},
		{"shrink_master", h.ShrinkMaster},
		{"inc_columns", h.IncColumns},
		{"dec_columns", h.DecColumns},
		{"next_layout", h.NextLayout},
		{"prev_layout", h.PrevLayout},
		{"zoom", h.Zoom},
	}
}

// Config holds the effective configuration.
type Config struct {
	LogLevel        string            `yaml:"log_level"`
	DefaultLayout   string            `yaml:"default_layout"`
	HonorSizeHints  bool              `yaml:"honor_size_hints"`
	AutoRetile      bool              `yaml:"auto_retile"`
	FractionStep    float64           `yaml:"fraction_step"`
	ScreenPadding   Padding           `yaml:"screen_padding"`
	FloatingClasses []string          `yaml:"floating_classes"`
	Layouts         map[string]Layout `yaml:"layouts"`
	Tags            map[int]TagConfig `yaml:"tags,omitempty"`
	Hotkeys         Hotkeys           `yaml:"hotkeys"`
}

const DefaultBuiltinLayout = "tile"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		DefaultLayout:  DefaultBuiltinLayout,
		HonorSizeHints: true,
		AutoRetile:     true,
		FractionStep:   0.05,
		FloatingClasses: []string{
			"MPlayer",
			"pinentry",
			"Gimp",
		},
		Layouts: BuiltinLayouts(),
		Tags:    map[int]TagConfig{},
		Hotkeys: Hotkeys{
			Tile:         "Mod4-t",
			IncMaster:    "Mod4-Shift-h",
			DecMaster:    "Mod4-Shift-l",
			GrowMaster:   "Mod4-l",
			ShrinkMaster: "Mod4-h",
			IncColumns:   "Mod4-Control-h",
			DecColumns:   "Mod4-Control-l",
			NextLayout:   "Mod4-space",
			PrevLayout:   "Mod4-Shift-space",
			Zoom:         "Mod4-Return",
		},
	}
}

// GetLayout returns the named layout preset.
func (c *Config) GetLayout(name string) (Layout, error) {
	l, ok := c.Layouts[name]
	if !ok {
		return Layout{}, fmt.Errorf("layout %q not found (available: %s)", name, strings.Join(c.LayoutNames(), ", "))
	}
	return l, nil
}

// LayoutNames returns the layout names in cycling order: built-ins first
// in their fixed order, then user layouts sorted by name.
func (c *Config) LayoutNames() []string {
	names := make([]string, 0, len(c.Layouts))
	seen := make(map[string]bool, len(c.Layouts))
	for _, name := range BuiltinLayoutOrder() {
		if _, ok := c.Layouts[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var custom []string
	for name := range c.Layouts {
		if !seen[name] {
			custom = append(custom, name)
		}
	}
	sort.Strings(custom)
	return append(names, custom...)
}

// TagLayout resolves the initial layout name and parameters of a desktop,
// applying any per-tag overrides on top of the named preset.
func (c *Config) TagLayout(desktop int) (string, layout.Params, error) {
	name := c.DefaultLayout
	tc, hasTag := c.Tags[desktop]
	if hasTag && tc.Layout != "" {
		name = tc.Layout
	}
	base, err := c.GetLayout(name)
	if err != nil {
		return "", layout.Params{}, err
	}
	params := base.Params()
	if hasTag {
		if tc.Orientation != nil {
			params.Orientation = *tc.Orientation
		}
		if tc.MasterCount != nil {
			params.MasterCount = *tc.MasterCount
		}
		if tc.MasterFraction != nil {
			params.MasterFraction = *tc.MasterFraction
		}
		if tc.Columns != nil {
			params.Columns = *tc.Columns
		}
	}
	return name, params, nil
}

// IsFloatingClass reports whether windows of class are never tiled.
func (c *Config) IsFloatingClass(class string) bool {
	for _, fc := range c.FloatingClasses {
		if strings.EqualFold(fc, class) {
			return true
		}
	}
	return false
}

// SaveTo writes the configuration as YAML to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if math.IsNaN(c.FractionStep) || c.FractionStep <= 0 || c.FractionStep > 0.5 {
		return &ValidationError{Path: "fraction_step", Err: fmt.Errorf("fraction_step must be in (0, 0.5]")}
	}
	p := c.ScreenPadding
	if p.Top < 0 || p.Bottom < 0 || p.Left < 0 || p.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	for i, class := range c.FloatingClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "floating_classes", Err: fmt.Errorf("entry %d is empty", i)}
		}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.DefaultLayout)}
	}
	for _, name := range c.LayoutNames() {
		if err := validateLayout(c.Layouts[name]); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}

	desktops := make([]int, 0, len(c.Tags))
	for d := range c.Tags {
		desktops = append(desktops, d)
	}
	sort.Ints(desktops)
	for _, d := range desktops {
		path := fmt.Sprintf("tags.%d", d)
		if d < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("desktop index must be >= 0")}
		}
		tc := c.Tags[d]
		if tc.Layout != "" {
			if _, ok := c.Layouts[tc.Layout]; !ok {
				return &ValidationError{Path: path + ".layout", Err: fmt.Errorf("layout %q not found in layouts", tc.Layout)}
			}
		}
		_, params, err := c.TagLayout(d)
		if err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if params.Columns < 0 {
			return &ValidationError{Path: path + ".columns", Err: fmt.Errorf("columns must be >= 0")}
		}
		if err := params.Validate(); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	seen := make(map[string]string)
	for _, b := range c.Hotkeys.Bindings() {
		name, seq := b[0], strings.TrimSpace(b[1])
		if seq == "" {
			continue
		}
		if other, dup := seen[seq]; dup {
			return &ValidationError{Path: "hotkeys." + name, Err: fmt.Errorf("%q is already bound to %s", seq, other)}
		}
		seen[seq] = name
	}

	return nil
}

// validateLayout checks if a layout preset is valid.
func validateLayout(l Layout) error {
	if !l.Orientation.Valid() {
		return fmt.Errorf("invalid orientation %d", int(l.Orientation))
	}
	if l.MasterCount < 0 {
		return fmt.Errorf("master_count must be >= 0")
	}
	if math.IsNaN(l.MasterFraction) || l.MasterFraction <= 0 || l.MasterFraction > 1 {
		return fmt.Errorf("master_fraction must be in (0, 1]")
	}
	if l.Columns < 0 {
		return fmt.Errorf("columns must be >= 0")
	}
	return nil
}
