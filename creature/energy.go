package creature

// Energy is a creature's energy store. Its cap starts at a multiple of the
// initial energy and shrinks linearly to zero over the lifespan, so every
// creature eventually dies of old age. Once the value reaches zero it stays there.
type Energy struct {
	initial   float64
	value     float64
	maxForAge float64
	decay     float64
}

// NewEnergy creates an energy store holding initial.
func NewEnergy(initial, maxMultiplier float64, lifespan int) *Energy {
	maxForAge := initial * maxMultiplier
	return &Energy{
		initial:   initial,
		value:     initial,
		maxForAge: maxForAge,
		decay:     maxForAge / float64(max(lifespan, 1)),
	}
}

// Tick ages the store by one tick and applies spent and gained energy.
func (e *Energy) Tick(spent, gained float64) {
	if e.IsZero() {
		return
	}
	e.maxForAge = max(0, e.maxForAge-e.decay)
	e.value = min(e.value+gained-spent, e.maxForAge)
	if e.value <= 0 {
		e.value = 0
	}
}

// IncreaseBy adds energy up to the current cap. An empty store stays empty.
func (e *Energy) IncreaseBy(amount float64) {
	if e.IsZero() || amount <= 0 {
		return
	}
	e.value = min(e.value+amount, e.maxForAge)
}

// DecreaseBy removes energy, stopping at zero.
func (e *Energy) DecreaseBy(amount float64) {
	if amount <= 0 {
		return
	}
	e.value = max(0, e.value-amount)
}

// Value returns the current energy.
func (e *Energy) Value() float64 { return e.value }

// Initial returns the energy the store started with.
func (e *Energy) Initial() float64 { return e.initial }

// MaxForAge returns the current cap.
func (e *Energy) MaxForAge() float64 { return e.maxForAge }

// IsZero reports whether the store is empty, which means death.
func (e *Energy) IsZero() bool { return e.value <= 0 }

// Percent returns value over the current cap, in [0, 1].
func (e *Energy) Percent() float64 {
	if e.maxForAge <= 0 {
		return 0
	}
	return min(1, e.value/e.maxForAge)
}
