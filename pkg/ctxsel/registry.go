package ctxsel

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrUnknownContext is returned by Registry.Context for a name no context
// was registered under.
var ErrUnknownContext = errors.New("ctxsel: unknown context")

// EventKind is the kind of a registry event.
type EventKind string

const (
	EventMount   EventKind = "mount"
	EventPending EventKind = "pending"
	EventPublish EventKind = "publish"
	EventResolve EventKind = "resolve"
	EventUnmount EventKind = "unmount"
)

// Event describes a provider lifecycle or protocol step. Events never
// carry the published value.
type Event struct {
	Kind       EventKind `json:"kind"`
	Context    string    `json:"context"`
	ProviderID string    `json:"providerId"`
	Version    int64     `json:"version"`
	Listeners  int       `json:"listeners"`
	At         time.Time `json:"at"`
}

// ProviderInfo is the registry's view of a mounted provider.
type ProviderInfo struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Listeners int       `json:"listeners"`
	Publishes uint64    `json:"publishes"`
	Updates   uint64    `json:"updates"`
	MountedAt time.Time `json:"mountedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContextInfo is the registry's view of a context.
type ContextInfo struct {
	Name      string         `json:"name"`
	Providers []ProviderInfo `json:"providers"`
}

// Registry tracks the providers of named contexts and fans their events
// out to watchers. It is safe for concurrent use; components record into
// it from the render goroutine while readers run elsewhere.
//
// A nil *Registry records nothing.
type Registry struct {
	mu        sync.RWMutex
	contexts  map[string]*registryEntry
	watchers  map[int]chan Event
	nextWatch int
	now       func() time.Time
}

type registryEntry struct {
	providers map[string]*ProviderInfo
}

// NewRegistry creates an empty registry. The zero Registry is also ready
// to use.
func NewRegistry() *Registry {
	r := &Registry{}
	r.lazyInit()
	return r
}

// lazyInit allocates the tables. r.mu must be held for writing.
func (r *Registry) lazyInit() {
	if r.contexts == nil {
		r.contexts = make(map[string]*registryEntry)
	}
	if r.watchers == nil {
		r.watchers = make(map[int]chan Event)
	}
	if r.now == nil {
		r.now = time.Now
	}
}

func (r *Registry) register(name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lazyInit()
	if _, ok := r.contexts[name]; !ok {
		r.contexts[name] = &registryEntry{providers: make(map[string]*ProviderInfo)}
	}
}

// record applies ev to the provider table and delivers it to watchers.
// Watchers that are not keeping up miss events.
func (r *Registry) record(ev Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lazyInit()

	ev.At = r.now()
	entry, ok := r.contexts[ev.Context]
	if !ok {
		entry = &registryEntry{providers: make(map[string]*ProviderInfo)}
		r.contexts[ev.Context] = entry
	}

	switch ev.Kind {
	case EventMount:
		entry.providers[ev.ProviderID] = &ProviderInfo{
			ID:        ev.ProviderID,
			Version:   ev.Version,
			Listeners: ev.Listeners,
			MountedAt: ev.At,
			UpdatedAt: ev.At,
		}
	case EventUnmount:
		delete(entry.providers, ev.ProviderID)
	default:
		if p, ok := entry.providers[ev.ProviderID]; ok {
			switch ev.Kind {
			case EventPublish:
				p.Publishes++
				p.Version = ev.Version
			case EventResolve:
				p.Version = ev.Version
			case EventPending:
				p.Updates++
			}
			p.Listeners = ev.Listeners
			p.UpdatedAt = ev.At
		}
	}

	for _, ch := range r.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Contexts returns every registered context, sorted by name, with its
// providers sorted by mount time.
func (r *Registry) Contexts() []ContextInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ContextInfo, 0, len(r.contexts))
	for name, entry := range r.contexts {
		out = append(out, entry.info(name))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Context returns the named context, or ErrUnknownContext.
func (r *Registry) Context(name string) (ContextInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.contexts[name]
	if !ok {
		return ContextInfo{}, ErrUnknownContext
	}
	return entry.info(name), nil
}

// Watch subscribes to events. The returned function unsubscribes and
// closes the channel.
func (r *Registry) Watch(buffer int) (<-chan Event, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lazyInit()

	id := r.nextWatch
	r.nextWatch++
	ch := make(chan Event, buffer)
	r.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.watchers, id)
			close(ch)
		})
	}
}

func (e *registryEntry) info(name string) ContextInfo {
	info := ContextInfo{Name: name, Providers: make([]ProviderInfo, 0, len(e.providers))}
	for _, p := range e.providers {
		info.Providers = append(info.Providers, *p)
	}
	sort.Slice(info.Providers, func(i, j int) bool {
		a, b := info.Providers[i], info.Providers[j]
		if a.MountedAt.Equal(b.MountedAt) {
			return a.ID < b.ID
		}
		return a.MountedAt.Before(b.MountedAt)
	})
	return info
}
