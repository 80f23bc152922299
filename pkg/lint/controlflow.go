package lint

// FlowKind classifies a control-flow construct.
type FlowKind uint8

const (
	// FlowNone is the state outside any construct.
	FlowNone FlowKind = iota
	// FlowConditional covers if/unless/case/begin: exactly one branch runs.
	FlowConditional
	// FlowLoop covers loops and blocks: the body runs zero or more times.
	FlowLoop
)

// Verdict is the outcome of recording a name with a ControlFlowTracker.
type Verdict uint8

const (
	// Unique means the name was not seen before in any live scope.
	Unique Verdict = iota
	// DuplicateSameTag means the name was already set unconditionally, or by
	// a conditional that has resolved.
	DuplicateSameTag
	// DuplicateSameBranch means the name repeats within one conditional branch.
	DuplicateSameBranch
	// DuplicateSameIteration means the name repeats within one loop body.
	DuplicateSameIteration
)

func (v Verdict) String() string {
	switch v {
	case Unique:
		return "unique"
	case DuplicateSameTag:
		return "same-tag"
	case DuplicateSameBranch:
		return "same-branch"
	case DuplicateSameIteration:
		return "same-iteration"
	default:
		return "unknown"
	}
}

// flowFrame is one open construct.
type flowFrame struct {
	kind   FlowKind
	branch map[string]bool // names set in the current branch
	seen   map[string]bool // names set in any branch
}

// ControlFlowTracker tracks names (such as attribute names) across ERB
// control flow. It is an explicit stack machine: callers push a frame when
// entering a construct, start a branch for each arm, record names as they
// are visited and pop on exit.
//
// Names recorded in mutually exclusive branches of a conditional do not
// collide with each other. Once the outermost conditional exits, everything
// it recorded joins the outer set. A nested conditional that exits joins
// the enclosing branch instead. Loop bodies never join the outer set.
//
// The zero value is ready to use.
type ControlFlowTracker struct {
	outer       map[string]bool
	accumulator map[string]bool
	stack       []flowFrame
}

// Reset clears all state. Call it before each independent scope, such as
// the attributes of one open tag.
func (t *ControlFlowTracker) Reset() {
	t.outer = nil
	t.accumulator = nil
	t.stack = t.stack[:0]
}

// Depth returns the number of open constructs.
func (t *ControlFlowTracker) Depth() int {
	return len(t.stack)
}

// Kind returns the kind of the innermost open construct.
func (t *ControlFlowTracker) Kind() FlowKind {
	if len(t.stack) == 0 {
		return FlowNone
	}
	return t.stack[len(t.stack)-1].kind
}

// EnterControlFlow pushes a construct. Entering an outermost construct
// starts a fresh accumulator.
func (t *ControlFlowTracker) EnterControlFlow(kind FlowKind) {
	if len(t.stack) == 0 {
		t.accumulator = make(map[string]bool)
	}
	t.stack = append(t.stack, flowFrame{
		kind:   kind,
		branch: make(map[string]bool),
		seen:   make(map[string]bool),
	})
}

// EnterBranch starts a new arm of the innermost construct.
// Names recorded in earlier arms no longer collide.
func (t *ControlFlowTracker) EnterBranch() {
	if len(t.stack) == 0 {
		return
	}
	t.stack[len(t.stack)-1].branch = make(map[string]bool)
}

// ExitControlFlow pops the innermost construct. A conditional's names join
// the enclosing branch, or the outer set when it was outermost.
func (t *ControlFlowTracker) ExitControlFlow() {
	if len(t.stack) == 0 {
		return
	}
	frame := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]

	if n := len(t.stack); n > 0 {
		if frame.kind == FlowConditional {
			parent := &t.stack[n-1]
			for name := range frame.seen {
				parent.branch[name] = true
				parent.seen[name] = true
			}
		}
		return
	}
	if frame.kind == FlowConditional {
		for name := range t.accumulator {
			t.setOuter(name)
		}
	}
	t.accumulator = nil
}

// Record visits name and reports whether it duplicates an earlier one.
// A duplicate is not recorded again.
func (t *ControlFlowTracker) Record(name string) Verdict {
	if t.outer[name] {
		return DuplicateSameTag
	}
	if len(t.stack) == 0 {
		t.setOuter(name)
		return Unique
	}

	// Enclosing branches are live together with the innermost one.
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].branch[name] {
			if t.stack[i].kind == FlowLoop {
				return DuplicateSameIteration
			}
			return DuplicateSameBranch
		}
	}

	top := &t.stack[len(t.stack)-1]
	top.branch[name] = true
	top.seen[name] = true
	if !t.insideLoop() {
		t.accumulator[name] = true
	}
	return Unique
}

func (t *ControlFlowTracker) insideLoop() bool {
	for _, f := range t.stack {
		if f.kind == FlowLoop {
			return true
		}
	}
	return false
}

func (t *ControlFlowTracker) setOuter(name string) {
	if t.outer == nil {
		t.outer = make(map[string]bool)
	}
	t.outer[name] = true
}
