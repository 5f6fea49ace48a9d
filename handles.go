package simcore

// Handle is a generation-checked slot reference (spec §9, design notes:
// "arena with stable handles (index + generation) for objects and particles
// so stale references are detectable"), replacing the source engine's raw
// REF_T array indices and INVALID_* sentinels. index is the arena slot
// number plus one, so the zero Handle (an unset AttachmentSlots.HeldBy, an
// unset Particle.AttachedTo, ...) is never mistaken for the arena's first
// allocated slot; every real Handle is built through handleFor/slotFor below
// rather than touching index directly.
type Handle struct {
	index      int
	generation uint32
}

// InvalidHandle never refers to a live slot. It is also Handle's zero
// value, so a struct field left unset already reads as invalid.
var InvalidHandle = Handle{}

// IsValid reports whether h was ever allocated (it may still be stale — use
// [Arena.Get] to check liveness against the current generation).
func (h Handle) IsValid() bool { return h.index > 0 }

// handleFor builds the Handle for arena slot i.
func handleFor(i int, generation uint32) Handle {
	return Handle{index: i + 1, generation: generation}
}

// slotFor returns h's arena slot index and whether h could possibly refer to
// one (h.index > 0); it does not check liveness or generation.
func slotFor(h Handle) (int, bool) {
	if h.index <= 0 {
		return 0, false
	}
	return h.index - 1, true
}

type arenaSlot[T any] struct {
	value      T
	generation uint32
	alive      bool
}

// Arena is the generic growable container the design notes call for in
// place of the source engine's macro-generated dynamic arrays (spec §9):
// a single implementation serves both the object and particle stores.
// Freed slots are recycled with a bumped generation so a [Handle] captured
// before a Free reads as dead rather than aliasing whatever reuses the slot.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []int
}

// NewArena returns an empty Arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v in a new or recycled slot and returns its Handle.
func (a *Arena[T]) Alloc(v T) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		slot := &a.slots[idx]
		slot.value = v
		slot.alive = true
		return handleFor(idx, slot.generation)
	}
	a.slots = append(a.slots, arenaSlot[T]{value: v, alive: true})
	return handleFor(len(a.slots)-1, 0)
}

// Get returns a pointer to the live value h refers to, or (nil, false) if h
// is stale or out of range.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	idx, ok := slotFor(h)
	if !ok || idx >= len(a.slots) {
		return nil, false
	}
	slot := &a.slots[idx]
	if !slot.alive || slot.generation != h.generation {
		return nil, false
	}
	return &slot.value, true
}

// Free retires h's slot, bumping its generation and recycling the index.
func (a *Arena[T]) Free(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	idx, _ := slotFor(h)
	slot := &a.slots[idx]
	slot.alive = false
	slot.generation++
	var zero T
	slot.value = zero
	a.free = append(a.free, idx)
	return true
}

// Each calls fn for every live slot, in slot-index order (spec §5,
// "Ordering": "iteration over objects and particles is over the
// insertion-ordered live handles").
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.alive {
			fn(handleFor(i, slot.generation), &slot.value)
		}
	}
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	n := 0
	for i := range a.slots {
		if a.slots[i].alive {
			n++
		}
	}
	return n
}

// ObjectRef is a stable reference to an Object.
type ObjectRef struct{ h Handle }

// InvalidObjectRef never refers to a live Object.
var InvalidObjectRef = ObjectRef{h: InvalidHandle}

// IsValid reports whether r was ever allocated.
func (r ObjectRef) IsValid() bool { return r.h.IsValid() }

// ParticleRef is a stable reference to a Particle.
type ParticleRef struct{ h Handle }

// InvalidParticleRef never refers to a live Particle.
var InvalidParticleRef = ParticleRef{h: InvalidHandle}

// IsValid reports whether r was ever allocated.
func (r ParticleRef) IsValid() bool { return r.h.IsValid() }
