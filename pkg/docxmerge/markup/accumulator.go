package markup

// State is the phase of an Accumulator.
type State int

const (
	StateIdle State = iota
	StateAccumulating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Mode tells an accumulating Accumulator what it is waiting for.
type Mode int

const (
	// ModeUncertain: a bare opening brace was seen, direction unknown.
	ModeUncertain Mode = iota
	// ModeSimple: inside a non-block {{ }} pair.
	ModeSimple
	// ModeMultiline: inside block markers, Depth counts unclosed opens.
	ModeMultiline
)

func (m Mode) String() string {
	switch m {
	case ModeUncertain:
		return "uncertain"
	case ModeSimple:
		return "simple"
	case ModeMultiline:
		return "multiline"
	default:
		return "unknown"
	}
}

// Accumulator reassembles a template marker from the text fragments a word
// processor scattered across adjacent runs. It is an immutable value: Next
// returns the successor state and never modifies the receiver.
//
//	acc := markup.Accumulator{}
//	acc = acc.Next("{{na")
//	acc = acc.Next("me}}")
//	text, done := acc.Result() // "{{name}}", true
type Accumulator struct {
	state  State
	mode   Mode
	depth  int
	buffer string
}

func (a Accumulator) State() State   { return a.state }
func (a Accumulator) Mode() Mode     { return a.mode }
func (a Accumulator) Depth() int     { return a.depth }
func (a Accumulator) Buffer() string { return a.buffer }

// Accumulating reports whether more fragments are expected.
func (a Accumulator) Accumulating() bool {
	return a.state == StateAccumulating
}

// Result returns the coalesced text once the accumulator is done.
func (a Accumulator) Result() (string, bool) {
	if a.state != StateDone {
		return "", false
	}
	return a.buffer, true
}

// Next feeds one text fragment. A Done accumulator starts over as if Idle.
func (a Accumulator) Next(fragment string) Accumulator {
	switch a.state {
	case StateAccumulating:
		buf := a.buffer + fragment
		switch a.mode {
		case ModeMultiline:
			return multiline(buf)
		case ModeSimple:
			return simple(buf)
		default:
			return uncertain(buf)
		}
	default:
		return idle(fragment)
	}
}

func idle(buf string) Accumulator {
	switch {
	case hasBlockOpen(buf) && blockDepth(buf) > 0:
		return accumulating(buf, ModeMultiline, blockDepth(buf))
	case openBrackets(buf):
		return accumulating(buf, ModeUncertain, 0)
	case hasMarker(buf):
		return done(buf)
	case buf != "" && buf[len(buf)-1] == '{':
		return accumulating(buf, ModeUncertain, 0)
	default:
		return done(buf)
	}
}

func uncertain(buf string) Accumulator {
	switch {
	case blockDepth(buf) > 0:
		return accumulating(buf, ModeMultiline, blockDepth(buf))
	case openBrackets(buf):
		return accumulating(buf, ModeSimple, 0)
	case hasMarker(buf):
		return done(buf)
	case buf[len(buf)-1] == '{':
		return accumulating(buf, ModeUncertain, 0)
	default:
		return done(buf)
	}
}

func simple(buf string) Accumulator {
	if openBrackets(buf) {
		return accumulating(buf, ModeSimple, 0)
	}
	if d := blockDepth(buf); d > 0 {
		return accumulating(buf, ModeMultiline, d)
	}
	return done(buf)
}

func multiline(buf string) Accumulator {
	if d := blockDepth(buf); d > 0 {
		return accumulating(buf, ModeMultiline, d)
	}
	if openBrackets(buf) {
		return accumulating(buf, ModeSimple, 0)
	}
	return done(buf)
}

func accumulating(buf string, mode Mode, depth int) Accumulator {
	return Accumulator{state: StateAccumulating, mode: mode, depth: depth, buffer: buf}
}

func done(buf string) Accumulator {
	return Accumulator{state: StateDone, buffer: buf}
}
