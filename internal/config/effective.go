package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError points at the config path (and, once the loader has
// attached it, the file position) of an invalid value.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of the defaults. It returns the
// config and, per layout, the built-in it was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.DefaultLayout != nil {
		cfg.DefaultLayout = strings.TrimSpace(*raw.DefaultLayout)
	}
	if raw.HonorSizeHints != nil {
		cfg.HonorSizeHints = *raw.HonorSizeHints
	}
	if raw.AutoRetile != nil {
		cfg.AutoRetile = *raw.AutoRetile
	}
	if raw.FractionStep != nil {
		cfg.FractionStep = *raw.FractionStep
	}
	if raw.FloatingClasses != nil {
		cfg.FloatingClasses = append([]string(nil), (*raw.FloatingClasses)...)
	}
	if p := raw.ScreenPadding; p != nil {
		setInt(&cfg.ScreenPadding.Top, p.Top)
		setInt(&cfg.ScreenPadding.Bottom, p.Bottom)
		setInt(&cfg.ScreenPadding.Left, p.Left)
		setInt(&cfg.ScreenPadding.Right, p.Right)
	}
	if h := raw.Hotkeys; h != nil {
		setString(&cfg.Hotkeys.Tile, h.Tile)
		setString(&cfg.Hotkeys.IncMaster, h.IncMaster)
		setString(&cfg.Hotkeys.DecMaster, h.DecMaster)
		setString(&cfg.Hotkeys.GrowMaster, h.GrowMaster)
		setString(&cfg.Hotkeys.ShrinkMaster, h.ShrinkMaster)
		setString(&cfg.Hotkeys.IncColumns, h.IncColumns)
		setString(&cfg.Hotkeys.DecColumns, h.DecColumns)
		setString(&cfg.Hotkeys.NextLayout, h.NextLayout)
		setString(&cfg.Hotkeys.PrevLayout, h.PrevLayout)
		setString(&cfg.Hotkeys.Zoom, h.Zoom)
	}

	layoutBases, err := applyLayouts(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	for desktop, rt := range raw.Tags {
		tc := TagConfig{
			Orientation:    rt.Orientation,
			MasterCount:    rt.MasterCount,
			MasterFraction: rt.MasterFraction,
			Columns:        rt.Columns,
		}
		if rt.Layout != nil {
			tc.Layout = strings.TrimSpace(*rt.Layout)
		}
		cfg.Tags[desktop] = tc
	}

	return cfg, layoutBases, nil
}

func applyLayouts(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinLayouts()
	bases := make(map[string]string, len(builtin)+len(raw.Layouts))
	for name := range builtin {
		bases[name] = name
	}

	names := make([]string, 0, len(raw.Layouts))
	for name := range raw.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		patch := raw.Layouts[name]
		if strings.TrimSpace(name) == "" {
			return nil, &ValidationError{Path: "layouts", Err: fmt.Errorf("layout name must not be empty")}
		}
		baseName, base, err := resolveLayoutBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}
		cfg.Layouts[name] = mergeLayoutPatch(base, patch)
		bases[name] = baseName
	}
	return bases, nil
}

// resolveLayoutBase picks the built-in a user layout starts from: the one
// named by inherits, the built-in of the same name, or the default.
func resolveLayoutBase(name string, patch RawLayout, builtin map[string]Layout) (string, Layout, error) {
	baseName := DefaultBuiltinLayout
	if _, ok := builtin[name]; ok {
		baseName = name
	}
	if patch.Inherits != nil {
		ref := strings.TrimSpace(*patch.Inherits)
		ref = strings.TrimPrefix(ref, "builtin:")
		if ref == "" {
			return "", Layout{}, &ValidationError{
				Path: "layouts." + name + ".inherits",
				Err:  fmt.Errorf("inherits must name a builtin layout"),
			}
		}
		baseName = ref
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", Layout{}, &ValidationError{
			Path: "layouts." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin layout %q (available: %s)", baseName, strings.Join(BuiltinLayoutOrder(), ", ")),
		}
	}
	return baseName, base, nil
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	if patch.Orientation != nil {
		base.Orientation = *patch.Orientation
	}
	if patch.MasterCount != nil {
		base.MasterCount = *patch.MasterCount
	}
	if patch.MasterFraction != nil {
		base.MasterFraction = *patch.MasterFraction
	}
	if patch.Columns != nil {
		base.Columns = *patch.Columns
	}
	return base
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
