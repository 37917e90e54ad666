package config

import "github.com/1broseidon/tagtile/internal/layout"

// BuiltinLayouts returns the built-in layout library.
//
// The four presets share one master/stack algorithm and differ only in the
// side the stack occupies.
func BuiltinLayouts() map[string]Layout {
	base := Layout{MasterCount: 1, MasterFraction: 0.5, Columns: 1}
	out := make(map[string]Layout, 4)
	for name, o := range map[string]layout.Orientation{
		"tile":       layout.StackRight,
		"tileleft":   layout.StackLeft,
		"tiletop":    layout.StackTop,
		"tilebottom": layout.StackBottom,
	} {
		l := base
		l.Orientation = o
		out[name] = l
	}
	return out
}

// BuiltinLayoutOrder is the cycling order of the built-in layouts.
func BuiltinLayoutOrder() []string {
	return []string{"tile", "tileleft", "tilebottom", "tiletop"}
}
