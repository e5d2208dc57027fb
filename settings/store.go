package settings

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/loop"
)

// Change describes one updated key.
type Change struct {
	Key string
	Old any
	New any
}

type observer struct {
	id   uint64
	keys []string
	fn   func(Change)
}

// Store guards a Settings value and notifies observers of changes.
// Observers run synchronously on the goroutine that made the change, after
// the store lock is released, in subscription order.
type Store struct {
	mu  sync.RWMutex
	cur Settings

	obsMu     sync.Mutex
	observers []observer
	nextID    uint64
}

// NewStore returns a store holding s. It panics if s is invalid; use
// Settings.Validate on untrusted input first.
func NewStore(s Settings) *Store {
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("settings: NewStore: %v", err))
	}
	return &Store{cur: s}
}

// Snapshot returns a copy of the current settings.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.cur
}

// Get returns the value of key.
func (st *Store) Get(key string) (any, error) {
	return st.Snapshot().Get(key)
}

// Set assigns value to key. Setting t_min above t_max moves t_max along,
// and the reverse; point_count also resets points. On error nothing
// changes.
func (st *Store) Set(key string, value any) error {
	f, ok := fieldByKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return st.mutate(func(s *Settings) error {
		return f.set(s, value)
	})
}

// SetTMin sets the window start, dragging t_max if needed.
func (st *Store) SetTMin(v float64) error { return st.Set(KeyTMin, v) }

// SetTMax sets the window end, dragging t_min if needed.
func (st *Store) SetTMax(v float64) error { return st.Set(KeyTMax, v) }

// Update applies several key/value pairs as one change. Either all apply
// or none do.
func (st *Store) Update(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := fieldByKey[k]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKey, k)
		}
		keys = append(keys, k)
	}
	// Apply in declaration order so window drags are deterministic.
	slices.SortFunc(keys, func(a, b string) int { return keyIndex(a) - keyIndex(b) })
	return st.mutate(func(s *Settings) error {
		for _, k := range keys {
			if err := fieldByKey[k].set(s, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace swaps in a complete settings value.
func (st *Store) Replace(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return st.mutate(func(cur *Settings) error {
		*cur = s
		return nil
	})
}

// Reset stops animation, rewinds time to t_max and restores unit speed.
func (st *Store) Reset() {
	_ = st.mutate(func(s *Settings) error {
		s.Animate = false
		s.Time = s.TMax
		s.SpeedMultiplier = 1
		return nil
	})
}

// ResetAdvanced restores the line sampling parameters.
func (st *Store) ResetAdvanced() {
	_ = st.mutate(func(s *Settings) error {
		s.Points = s.PointCount
		s.InterpolatePoints = true
		s.InterpolateMultiplier = DefaultMultiplier
		return nil
	})
}

// ToggleAnimate flips animate and returns the new value.
func (st *Store) ToggleAnimate() bool {
	var on bool
	_ = st.mutate(func(s *Settings) error {
		s.Animate = !s.Animate
		on = s.Animate
		return nil
	})
	return on
}

// Playback returns the animation parameters for one loop tick.
func (st *Store) Playback() loop.Playback {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return loop.Playback{
		Animate: st.cur.Animate,
		Time:    st.cur.Time,
		Speed:   st.cur.SpeedMultiplier,
		TMin:    st.cur.TMin,
		TMax:    st.cur.TMax,
	}
}

// Advance stores the animated time. Observers are not notified; the loop
// forwards the time to the materials itself.
func (st *Store) Advance(t float64) {
	st.mu.Lock()
	st.cur.Time = t
	st.mu.Unlock()
}

func (st *Store) mutate(fn func(*Settings) error) error {
	st.mu.Lock()
	next := st.cur
	if err := fn(&next); err != nil {
		st.mu.Unlock()
		return err
	}
	if next.TMin > next.TMax {
		st.mu.Unlock()
		return fmt.Errorf("%w: t_min %g > t_max %g", ErrOutOfRange, next.TMin, next.TMax)
	}
	prev := st.cur
	st.cur = next
	st.mu.Unlock()

	changes := diff(&prev, &next)
	if len(changes) > 0 {
		logging.Logger().Debug("settings: changed", "keys", len(changes), "first", changes[0].Key)
	}
	st.notify(changes)
	return nil
}

func diff(prev, next *Settings) []Change {
	var out []Change
	for _, f := range fields {
		o, n := f.get(prev), f.get(next)
		if o != n {
			out = append(out, Change{Key: f.key, Old: o, New: n})
		}
	}
	return out
}

// Subscription is a registered observer.
type Subscription struct {
	st *Store
	id uint64
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.st == nil {
		return
	}
	s.st.obsMu.Lock()
	defer s.st.obsMu.Unlock()
	s.st.observers = slices.DeleteFunc(s.st.observers, func(o observer) bool { return o.id == s.id })
}

// Subscribe registers fn for changes to keys, or to every key when none
// are given.
func (st *Store) Subscribe(fn func(Change), keys ...string) Subscription {
	st.obsMu.Lock()
	defer st.obsMu.Unlock()
	st.nextID++
	st.observers = append(st.observers, observer{id: st.nextID, keys: keys, fn: fn})
	return Subscription{st: st, id: st.nextID}
}

func (st *Store) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}
	st.obsMu.Lock()
	obs := slices.Clone(st.observers)
	st.obsMu.Unlock()

	for _, c := range changes {
		for _, o := range obs {
			if len(o.keys) == 0 || slices.Contains(o.keys, c.Key) {
				o.fn(c)
			}
		}
	}
}

func keyIndex(key string) int {
	for i, f := range fields {
		if f.key == key {
			return i
		}
	}
	return len(fields)
}
