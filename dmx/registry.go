package dmx

import (
	"github.com/arloliu/go-dmx/hal"
	"github.com/puzpuzpuz/xsync/v3"
)

// MaxPorts is the number of registry slots, one per physical port index.
const MaxPorts = 8

// Registry maps physical port indices to the Sender currently driving that
// port. Port interrupt vectors are bound to a registry and look up the owner
// on every interrupt, so a port can change hands without rebinding its
// vector.
//
// The registry holds non-owning references: a Sender claims its slot in
// Begin and releases it in End.
type Registry struct {
	slots *xsync.MapOf[int, *Sender]
}

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: xsync.NewMapOf[int, *Sender]()}
}

// DefaultRegistry returns the process-wide registry used when no registry
// option is given.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Bind installs a vector on port that dispatches its interrupts through the
// registry. A port bound to several registries dispatches through the last
// one.
func (r *Registry) Bind(port hal.Port) {
	index := port.Index()
	port.SetVector(func() { r.Dispatch(index) })
}

// Dispatch delivers an interrupt for the port at index to its owner. An
// interrupt for an empty slot is stale and ignored.
func (r *Registry) Dispatch(index int) {
	s, ok := r.slots.Load(index)
	if !ok || s == nil {
		return
	}
	s.handleIRQ()
}

// Occupant returns the Sender that owns the port at index, or nil.
func (r *Registry) Occupant(index int) *Sender {
	s, _ := r.slots.Load(index)
	return s
}

// claim installs s in its slot and returns the previous occupant, if any.
func (r *Registry) claim(s *Sender) *Sender {
	prev, loaded := r.slots.LoadAndStore(s.index, s)
	if !loaded {
		return nil
	}

	return prev
}

// release empties the slot of s if s still owns it.
func (r *Registry) release(s *Sender) bool {
	released := false
	r.slots.Compute(s.index, func(cur *Sender, loaded bool) (*Sender, bool) {
		if loaded && cur == s {
			released = true
			return nil, true
		}

		return cur, !loaded
	})

	return released
}

func validPortIndex(index int) bool {
	return index >= 0 && index < MaxPorts
}
