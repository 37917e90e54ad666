package tag

import (
	"sort"
	"strconv"
	"sync"

	"github.com/1broseidon/tagtile/internal/layout"
)

// Defaults resolves the initial layout of a desktop.
type Defaults func(desktop int) (layoutName string, params layout.Params, err error)

// Registry creates tags lazily, one per virtual desktop.
type Registry struct {
	mu       sync.Mutex
	defaults Defaults
	tags     map[int]*Tag
}

// NewRegistry creates an empty registry.
func NewRegistry(defaults Defaults) *Registry {
	return &Registry{
		defaults: defaults,
		tags:     make(map[int]*Tag),
	}
}

// Get returns the tag of desktop, creating it from the defaults on first
// use.
func (r *Registry) Get(desktop int) (*Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tags[desktop]; ok {
		return t, nil
	}
	name, params, err := r.defaults(desktop)
	if err != nil {
		return nil, err
	}
	t, err := New(tagName(desktop), name, params)
	if err != nil {
		return nil, err
	}
	r.tags[desktop] = t
	return t, nil
}

// Reset drops every tag and swaps in new defaults. Tags are recreated on
// the next Get, so a config reload takes effect everywhere.
func (r *Registry) Reset(defaults Defaults) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = defaults
	r.tags = make(map[int]*Tag)
}

// Snapshots returns the state of every known tag ordered by desktop.
func (r *Registry) Snapshots() []Snapshot {
	r.mu.Lock()
	desktops := make([]int, 0, len(r.tags))
	for d := range r.tags {
		desktops = append(desktops, d)
	}
	tags := make(map[int]*Tag, len(r.tags))
	for d, t := range r.tags {
		tags[d] = t
	}
	r.mu.Unlock()

	sort.Ints(desktops)
	out := make([]Snapshot, 0, len(desktops))
	for _, d := range desktops {
		out = append(out, tags[d].Snapshot())
	}
	return out
}

func tagName(desktop int) string {
	if desktop < 0 {
		return "sticky"
	}
	return "desktop-" + strconv.Itoa(desktop)
}
