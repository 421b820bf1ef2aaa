package theme

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/huatuo-dr/geek-ppt/internal/logger"
)

// ErrPluginNotFound is returned by MustLookup style helpers for unknown ids.
var ErrPluginNotFound = errors.New("theme plugin not found")

// Registry maps plugin ids to plugins. Writes happen at startup; reads are
// safe from any goroutine.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]*Plugin
	order   []string
	log     *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]*Plugin),
		log:     logger.NewStyledLogger("Registry"),
	}
}

// SetLogger replaces the registry's logger.
func (r *Registry) SetLogger(l *log.Logger) {
	if l != nil {
		r.log = l
	}
}

// Register adds p, keyed by its normalized id. An existing plugin with the
// same id is overwritten with a warning. Register never fails; a malformed
// version is only logged. A legacy id is stored on a copy, leaving the
// caller's plugin untouched.
func (r *Registry) Register(p *Plugin) {
	if p == nil {
		return
	}
	if id := NormalizeID(p.ID); id != p.ID {
		cp := *p
		cp.ID = id
		p = &cp
	}
	if _, err := semver.StrictNewVersion(p.Version); err != nil {
		r.log.Warn("plugin version is not semver", "plugin", p.ID, "version", p.Version)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[p.ID]; exists {
		r.log.Warn("overwriting registered plugin", "plugin", p.ID)
	} else {
		r.order = append(r.order, p.ID)
	}
	r.plugins[p.ID] = p
}

// Lookup returns the plugin registered under id (legacy ids accepted).
func (r *Registry) Lookup(id string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[NormalizeID(id)]
	return p, ok
}

// Get is Lookup with an error for unknown ids.
func (r *Registry) Get(id string) (*Plugin, error) {
	p, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, id)
	}
	return p, nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// ListAll returns every plugin in first-registration order.
func (r *Registry) ListAll() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Plugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// IDs returns the registered ids in first-registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
