// Package pietvm implements the traversal engine and instruction
// dispatch (spec §4.3, §4.4) wired into a Program exposing the host
// API of spec §6: Load, Run, RunUntil.
//
// The control-flow shape — a step() that decodes one transition and
// dispatches to a table of handlers, driven by a context-cancellable
// Run loop — is grounded on the teacher's mos6502.step()/opcode-table
// dispatch and console/bus.go's Run(ctx) select loop.
package pietvm

import (
	"context"
	"fmt"
	"image"

	"github.com/pietlang/pietvm/internal/pietcolor"
	"github.com/pietlang/pietvm/internal/pietgrid"
	"github.com/pietlang/pietvm/internal/pietio"
	"github.com/pietlang/pietvm/internal/pietlog"
	"github.com/pietlang/pietvm/internal/pietstack"
)

// TerminationReason distinguishes why Run/RunUntil stopped
// (supplemented feature, SPEC_FULL.md item 2).
type TerminationReason int

const (
	// None means execution has not (yet) terminated.
	None TerminationReason = iota
	// Unreachable means the engine detected an unreachable program:
	// 8 consecutive failed colored-block escapes, or a repeated
	// (position, dp, cc) triple during a white excursion (spec §4.3).
	Unreachable
	// StepLimit means RunUntil's max_steps bound was reached (spec §5).
	StepLimit
)

func (r TerminationReason) String() string {
	switch r {
	case None:
		return "none"
	case Unreachable:
		return "unreachable"
	case StepLimit:
		return "step-limit"
	default:
		return "unknown"
	}
}

// StepInfo is passed to an OnStep observer after each productive
// transition (supplemented feature, SPEC_FULL.md item 1 — used by
// both --trace logging and the optional visualizer).
type StepInfo struct {
	Step      int
	From, To  pietgrid.Position
	SrcColor  pietcolor.Color
	DstColor  pietcolor.Color
	DP        pietcolor.DP
	CC        pietcolor.CC
	StackSize int
}

// Options configures a Program at Load time.
type Options struct {
	MissingColorPolicy pietgrid.MissingColorPolicy
	IO                 pietio.Channel
	Logger             *pietlog.Logger
	OnStep             func(StepInfo)
}

// Program is the full execution state: the immutable Grid/BlockIndex
// pair and the mutable traversal/stack state (spec §3's Lifecycle).
type Program struct {
	grid   *pietgrid.Grid
	blocks *pietgrid.BlockIndex
	stack  *pietstack.Stack
	io     pietio.Channel
	log    *pietlog.Logger
	onStep func(StepInfo)

	pos            pietgrid.Position
	dp             pietcolor.DP
	cc             pietcolor.CC
	escapeAttempts int

	steps     int
	reason    TerminationReason
	terminate bool
}

// Load lowers img into a Grid+BlockIndex (spec §4.1, §4.2) and
// returns a Program positioned at (0,0) with DP=Right, CC=Left (spec
// §4.3's initial state).
func Load(img image.Image, codelSize int, opts Options) (*Program, *pietgrid.BuildReport, error) {
	g, report, err := pietgrid.New(img, codelSize, opts.MissingColorPolicy)
	if err != nil {
		return nil, nil, fmt.Errorf("pietvm: load: %w", err)
	}

	ch := opts.IO
	if ch == nil {
		ch = pietio.NewStdio(noInput{}, discardWriter{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = pietlog.Default()
	}

	for rgba, n := range report.UnrecognizedColors {
		logger.Warn("pietvm: %d pixel(s) with unrecognized color %v mapped to default", n, rgba)
	}

	p := &Program{
		grid:   g,
		blocks: pietgrid.Build(g),
		stack:  pietstack.New(),
		io:     ch,
		log:    logger,
		onStep: opts.OnStep,
		pos:    pietgrid.Position{Row: 0, Col: 0},
		dp:     pietcolor.Right,
		cc:     pietcolor.CCLeft,
	}
	return p, report, nil
}

// Stack exposes the current stack contents (bottom-first), mainly for
// tests and host diagnostics.
func (p *Program) Stack() *pietstack.Stack { return p.stack }

// Steps returns the number of productive transitions executed so far.
func (p *Program) Steps() int { return p.steps }

// Position returns the current codel position.
func (p *Program) Position() pietgrid.Position { return p.pos }

// DP returns the current direction pointer.
func (p *Program) DP() pietcolor.DP { return p.dp }

// CC returns the current codel chooser.
func (p *Program) CC() pietcolor.CC { return p.cc }

type whiteState struct {
	pos pietgrid.Position
	dp  pietcolor.DP
	cc  pietcolor.CC
}

// crossWhite implements the white-traversal sub-state-machine of
// spec §4.3 step 2. It mutates p.pos/p.dp/p.cc in place and returns
// true if an unterminable white maze was detected.
func (p *Program) crossWhite() (unreachable bool) {
	visited := make(map[whiteState]bool)
	pos := p.pos

	for {
		state := whiteState{pos: pos, dp: p.dp, cc: p.cc}
		if visited[state] {
			return true
		}
		visited[state] = true

		next := pos.Add(p.dp)
		if !p.grid.InBounds(next) || p.grid.At(next) == pietcolor.Black {
			// Restricted: toggle cc, rotate dp, stay in place.
			p.cc = p.cc.Toggle()
			p.dp = p.dp.RotateCW()
			continue
		}
		if p.grid.At(next) == pietcolor.White {
			pos = next
			continue
		}

		// Escaped onto a hue-bearing codel.
		p.pos = next
		return false
	}
}

// Step executes one full traversal cycle (spec's "data flow per
// execution cycle"): it resolves white crossings and failed colored
// escapes internally, and returns once it either dispatches one
// instruction and advances position, or the program terminates. The
// more return value is false once termination has been detected;
// Reason() then reports why.
func (p *Program) Step() (more bool, err error) {
	if p.terminate {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			iwe, ok := r.(*ioWriteError)
			if !ok {
				panic(r)
			}
			p.terminate = true
			more, err = false, iwe
		}
	}()

	for {
		block, ok := p.blocks.BlockAt(p.pos)
		if !ok {
			return false, fmt.Errorf("pietvm: no color block at %v (structural error)", p.pos)
		}

		if block.Color == pietcolor.White {
			if p.crossWhite() {
				p.terminate = true
				p.reason = Unreachable
				return false, nil
			}
			continue
		}

		e := block.Edge(p.dp, p.cc)
		next := e.Add(p.dp)
		if !p.grid.InBounds(next) || p.grid.At(next) == pietcolor.Black {
			p.escapeAttempts++
			if p.escapeAttempts == 8 {
				p.terminate = true
				p.reason = Unreachable
				return false, nil
			}
			if p.escapeAttempts%2 == 1 {
				p.cc = p.cc.Toggle()
			} else {
				p.dp = p.dp.RotateCW()
			}
			continue
		}

		p.escapeAttempts = 0
		srcColor, dstColor := block.Color, p.grid.At(next)
		if h, ok := pietcolor.HueShift(srcColor, dstColor); ok {
			l, _ := pietcolor.LightnessShift(srcColor, dstColor)
			dispatch(p, h, l, block.Size())
		}

		from := p.pos
		p.pos = next
		p.steps++

		if p.onStep != nil {
			p.onStep(StepInfo{
				Step: p.steps, From: from, To: p.pos,
				SrcColor: srcColor, DstColor: dstColor,
				DP: p.dp, CC: p.cc, StackSize: p.stack.Len(),
			})
		}
		return true, nil
	}
}

// Reason reports why execution terminated; it is None while running.
func (p *Program) Reason() TerminationReason { return p.reason }

// Run executes until the program terminates (spec §6's run()) or ctx
// is canceled.
func (p *Program) Run(ctx context.Context) (TerminationReason, error) {
	for {
		select {
		case <-ctx.Done():
			return p.reason, ctx.Err()
		default:
		}

		more, err := p.Step()
		if err != nil {
			return p.reason, err
		}
		if !more {
			return p.reason, nil
		}
	}
}

// RunUntil executes at most maxSteps productive transitions (spec
// §6's run_until()), returning StepLimit if the bound was reached
// before termination.
func (p *Program) RunUntil(ctx context.Context, maxSteps int) (TerminationReason, error) {
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return p.reason, ctx.Err()
		default:
		}

		more, err := p.Step()
		if err != nil {
			return p.reason, err
		}
		if !more {
			return p.reason, nil
		}
	}
	p.terminate = true
	p.reason = StepLimit
	return p.reason, nil
}

// noInput/discardWriter back a no-op Channel for hosts that never
// call in()/out() and don't want to wire real stdio (e.g. pure
// computation tests).
type noInput struct{}

func (noInput) Read(p []byte) (int, error) { return 0, fmt.Errorf("pietvm: no input configured") }

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
