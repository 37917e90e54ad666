package config

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/layout"
	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawPadding struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawLayout struct {
	Inherits       *string             `yaml:"inherits"`
	Orientation    *layout.Orientation `yaml:"orientation"`
	MasterCount    *int                `yaml:"master_count"`
	MasterFraction *float64            `yaml:"master_fraction"`
	Columns        *int                `yaml:"columns"`
}

type RawTag struct {
	Layout         *string             `yaml:"layout"`
	Orientation    *layout.Orientation `yaml:"orientation"`
	MasterCount    *int                `yaml:"master_count"`
	MasterFraction *float64            `yaml:"master_fraction"`
	Columns        *int                `yaml:"columns"`
}

type RawHotkeys struct {
	Tile         *string `yaml:"tile"`
	IncMaster    *string `yaml:"inc_master"`
	DecMaster    *string `yaml:"dec_master"`
	GrowMaster   *string `yaml:"grow_master"`
	ShrinkMaster *string `yaml:"shrink_master"`
	IncColumns   *string `yaml:"inc_columns"`
	DecColumns   *string `yaml:"dec_columns"`
	NextLayout   *string `yaml:"next_layout"`
	PrevLayout   *string `yaml:"prev_layout"`
	Zoom         *string `yaml:"zoom"`
}

// RawConfig mirrors the YAML file. Nil fields were not set by the file.
type RawConfig struct {
	Include         IncludeList          `yaml:"include"`
	LogLevel        *string              `yaml:"log_level"`
	DefaultLayout   *string              `yaml:"default_layout"`
	HonorSizeHints  *bool                `yaml:"honor_size_hints"`
	AutoRetile      *bool                `yaml:"auto_retile"`
	FractionStep    *float64             `yaml:"fraction_step"`
	ScreenPadding   *RawPadding          `yaml:"screen_padding"`
	FloatingClasses *[]string            `yaml:"floating_classes"`
	Layouts         map[string]RawLayout `yaml:"layouts"`
	Tags            map[int]RawTag       `yaml:"tags"`
	Hotkeys         *RawHotkeys          `yaml:"hotkeys"`
}

// merge applies other on top of r; set fields in other win.
func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	out.LogLevel = pick(r.LogLevel, other.LogLevel)
	out.DefaultLayout = pick(r.DefaultLayout, other.DefaultLayout)
	out.HonorSizeHints = pick(r.HonorSizeHints, other.HonorSizeHints)
	out.AutoRetile = pick(r.AutoRetile, other.AutoRetile)
	out.FractionStep = pick(r.FractionStep, other.FractionStep)
	out.FloatingClasses = pick(r.FloatingClasses, other.FloatingClasses)

	if other.ScreenPadding != nil {
		base := RawPadding{}
		if r.ScreenPadding != nil {
			base = *r.ScreenPadding
		}
		merged := RawPadding{
			Top:    pick(base.Top, other.ScreenPadding.Top),
			Bottom: pick(base.Bottom, other.ScreenPadding.Bottom),
			Left:   pick(base.Left, other.ScreenPadding.Left),
			Right:  pick(base.Right, other.ScreenPadding.Right),
		}
		out.ScreenPadding = &merged
	}

	if len(other.Layouts) > 0 {
		out.Layouts = make(map[string]RawLayout, len(r.Layouts)+len(other.Layouts))
		for name, l := range r.Layouts {
			out.Layouts[name] = l
		}
		for name, l := range other.Layouts {
			base := out.Layouts[name]
			out.Layouts[name] = RawLayout{
				Inherits:       pick(base.Inherits, l.Inherits),
				Orientation:    pick(base.Orientation, l.Orientation),
				MasterCount:    pick(base.MasterCount, l.MasterCount),
				MasterFraction: pick(base.MasterFraction, l.MasterFraction),
				Columns:        pick(base.Columns, l.Columns),
			}
		}
	}

	if len(other.Tags) > 0 {
		out.Tags = make(map[int]RawTag, len(r.Tags)+len(other.Tags))
		for d, t := range r.Tags {
			out.Tags[d] = t
		}
		for d, t := range other.Tags {
			base := out.Tags[d]
			out.Tags[d] = RawTag{
				Layout:         pick(base.Layout, t.Layout),
				Orientation:    pick(base.Orientation, t.Orientation),
				MasterCount:    pick(base.MasterCount, t.MasterCount),
				MasterFraction: pick(base.MasterFraction, t.MasterFraction),
				Columns:        pick(base.Columns, t.Columns),
			}
		}
	}

	if other.Hotkeys != nil {
		base := RawHotkeys{}
		if r.Hotkeys != nil {
			base = *r.Hotkeys
		}
		h := other.Hotkeys
		merged := RawHotkeys{
			Tile:         pick(base.Tile, h.Tile),
			IncMaster:    pick(base.IncMaster, h.IncMaster),
			DecMaster:    pick(base.DecMaster, h.DecMaster),
			GrowMaster:   pick(base.GrowMaster, h.GrowMaster),
			ShrinkMaster: pick(base.ShrinkMaster, h.ShrinkMaster),
			IncColumns:   pick(base.IncColumns, h.IncColumns),
			DecColumns:   pick(base.DecColumns, h.DecColumns),
			NextLayout:   pick(base.NextLayout, h.NextLayout),
			PrevLayout:   pick(base.PrevLayout, h.PrevLayout),
			Zoom:         pick(base.Zoom, h.Zoom),
		}
		out.Hotkeys = &merged
	}

	return out
}

func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}
