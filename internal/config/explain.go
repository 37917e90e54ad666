package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths use the file's key names, for example:
//
//	default_layout
//	screen_padding.top
//	layouts.tile.master_fraction
//	tags.1.layout
//	hotkeys.zoom
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if name := layoutNameFromPath(path); name != "" {
		return value, Source{Kind: SourceBuiltin, Name: res.LayoutBases[name]}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func layoutNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "layouts" {
		return ""
	}
	return parts[1]
}

// lookupValue walks the YAML form of cfg, so every key a config file can
// set is addressable without a hand-written table.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	cur := tree
	for i, part := range strings.Split(path, ".") {
		next, ok := child(cur, part)
		if !ok {
			prefix := strings.Join(strings.Split(path, ".")[:i], ".")
			if keys := childKeys(cur); len(keys) > 0 {
				return nil, fmt.Errorf("unknown path: %s (keys under %q: %s)", path, prefix, strings.Join(keys, ", "))
			}
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		cur = next
	}
	return cur, nil
}

func child(node any, key string) (any, bool) {
	switch m := node.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[any]any:
		for k, v := range m {
			if fmt.Sprint(k) == key {
				return v, true
			}
		}
	}
	return nil, false
}

func childKeys(node any) []string {
	var keys []string
	switch m := node.(type) {
	case map[string]any:
		for k := range m {
			keys = append(keys, k)
		}
	case map[any]any:
		for k := range m {
			keys = append(keys, fmt.Sprint(k))
		}
	}
	sort.Strings(keys)
	return keys
}
