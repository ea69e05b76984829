// Package nerves implements the signal units that drive organ bending.
// A nerve takes the signal emitted by its parent organ and returns the signal
// its own organ emits. The neutral signal is 0.
package nerves

import "github.com/pthm-cable/narjillos/physics"

// Kind identifies a nerve variant.
type Kind uint8

const (
	// KindOscillator ignores its input and emits a sine wave. Heads carry one.
	KindOscillator Kind = iota + 1
	// KindDelayLine re-emits its input a fixed number of ticks later.
	KindDelayLine
)

func (k Kind) String() string {
	switch k {
	case KindOscillator:
		return "oscillator"
	case KindDelayLine:
		return "delay"
	default:
		return "unknown"
	}
}

// Nerve is a tagged variant over the nerve kinds. It is owned by a single
// organ and only advanced by the simulation thread.
type Nerve struct {
	kind Kind

	// Oscillator
	frequency float64 // cycles per tick
	amplitude float64
	phase     float64 // degrees
	ticks     uint64

	// DelayLine ring buffer
	delay  int
	buffer []float64
	head   int
	count  int
}

// NewOscillator creates an oscillator emitting
// amplitude * sin(phase + 360 * frequency * tick).
func NewOscillator(frequency, amplitude, phase float64) *Nerve {
	return &Nerve{kind: KindOscillator, frequency: frequency, amplitude: amplitude, phase: phase}
}

// NewDelayLine creates a delay line. A delay below 1 behaves as 1.
func NewDelayLine(delay int) *Nerve {
	delay = max(delay, 1)
	return &Nerve{kind: KindDelayLine, delay: delay, buffer: make([]float64, delay)}
}

// Tick advances the nerve by one tick and returns its output.
func (n *Nerve) Tick(in float64) float64 {
	switch n.kind {
	case KindOscillator:
		return n.oscillate()
	case KindDelayLine:
		return n.relay(in)
	default:
		return 0
	}
}

func (n *Nerve) oscillate() float64 {
	if n.amplitude == 0 {
		n.ticks++
		return 0
	}
	out := n.amplitude * physics.Sin(n.phase+360*n.frequency*float64(n.ticks))
	n.ticks++
	return out
}

// relay pushes in, then pops the oldest signal once delay signals are held.
func (n *Nerve) relay(in float64) float64 {
	tail := (n.head + n.count) % len(n.buffer)
	n.buffer[tail] = in
	n.count++
	if n.count < n.delay {
		return 0
	}
	out := n.buffer[n.head]
	n.head = (n.head + 1) % len(n.buffer)
	n.count--
	return out
}

// Kind returns the nerve variant.
func (n *Nerve) Kind() Kind { return n.kind }

// Delay returns the delay of a delay line, 0 for other kinds.
func (n *Nerve) Delay() int { return n.delay }

// Frequency returns the oscillator frequency, 0 for other kinds.
func (n *Nerve) Frequency() float64 { return n.frequency }

// Amplitude returns the oscillator amplitude, 0 for other kinds.
func (n *Nerve) Amplitude() float64 { return n.amplitude }

// Buffered returns the signals held by a delay line, oldest first.
func (n *Nerve) Buffered() []float64 {
	out := make([]float64, n.count)
	for i := range out {
		out[i] = n.buffer[(n.head+i)%len(n.buffer)]
	}
	return out
}
