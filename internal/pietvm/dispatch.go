package pietvm

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pietlang/pietvm/internal/pietio"
)

// opKey indexes the 6x3 instruction table by (hue_shift, lightness_shift),
// spec §4.4.
type opKey struct{ h, l int }

// op is an instruction handler. srcSize is the member count of the
// block being left, needed only by `push`.
type op func(p *Program, srcSize int)

var instructionTable = map[opKey]op{
	{0, 0}: opNop,
	{0, 1}: opPush,
	{0, 2}: opPop,
	{1, 0}: opAdd,
	{1, 1}: opSubtract,
	{1, 2}: opMultiply,
	{2, 0}: opDivide,
	{2, 1}: opMod,
	{2, 2}: opNot,
	{3, 0}: opGreater,
	{3, 1}: opPointer,
	{3, 2}: opSwitch,
	{4, 0}: opDuplicate,
	{4, 1}: opRoll,
	{4, 2}: opInNumber,
	{5, 0}: opInChar,
	{5, 1}: opOutNumber,
	{5, 2}: opOutChar,
}

// dispatch looks up and invokes the handler for (h, l). Every (h, l)
// in [0,6)x[0,3) has an entry; an unknown pair indicates a caller bug
// in hue/lightness shift computation, not a Piet runtime condition.
func dispatch(p *Program, h, l, srcSize int) {
	f, ok := instructionTable[opKey{h, l}]
	if !ok {
		panic(fmt.Sprintf("pietvm: no instruction for (h=%d, l=%d)", h, l))
	}
	f(p, srcSize)
}

func opNop(p *Program, _ int) {}

func opPush(p *Program, srcSize int) { p.stack.PushInt64(int64(srcSize)) }

func opPop(p *Program, _ int) { p.stack.Pop() }

func opAdd(p *Program, _ int) { p.stack.Add() }

func opSubtract(p *Program, _ int) { p.stack.Subtract() }

func opMultiply(p *Program, _ int) { p.stack.Multiply() }

func opDivide(p *Program, _ int) { p.stack.Divide() }

func opMod(p *Program, _ int) { p.stack.Mod() }

func opNot(p *Program, _ int) { p.stack.Not() }

func opGreater(p *Program, _ int) { p.stack.Greater() }

func opDuplicate(p *Program, _ int) { p.stack.Duplicate() }

func opRoll(p *Program, _ int) { p.stack.Roll() }

// opPointer rotates dp clockwise (a mod 4) times, per spec §4.4;
// negative a rotates clockwise by the normalized positive value,
// equivalent to anti-clockwise by |a| mod 4. No-op on underflow.
func opPointer(p *Program, _ int) {
	a, ok := p.stack.TryPop()
	if !ok {
		return
	}
	steps := int(new(big.Int).Mod(a, big.NewInt(4)).Int64())
	p.dp = p.dp.RotateCWBy(steps)
}

// opSwitch toggles cc iff the low bit of |a| is set. No-op on
// underflow.
func opSwitch(p *Program, _ int) {
	a, ok := p.stack.TryPop()
	if !ok {
		return
	}
	if new(big.Int).Abs(a).Bit(0) == 1 {
		p.cc = p.cc.Toggle()
	}
}

// opInNumber prompts for a line, parses a signed arbitrary-precision
// integer ignoring surrounding whitespace, and pushes it. Invalid
// input (including a read error) is a no-op.
func opInNumber(p *Program, _ int) {
	line, err := p.io.ReadLine()
	if err != nil {
		return
	}
	line = strings.TrimSpace(line)
	n, ok := new(big.Int).SetString(line, 10)
	if !ok {
		return
	}
	p.stack.Push(n)
}

// opInChar prompts for a line and pushes the Unicode scalar value of
// its first character. Empty input (or a read error) is a no-op.
func opInChar(p *Program, _ int) {
	line, err := p.io.ReadLine()
	if err != nil || line == "" {
		return
	}
	r, _ := utf8.DecodeRuneInString(line)
	if r == utf8.RuneError {
		return
	}
	p.stack.PushInt64(int64(r))
}

// opOutNumber pops and writes the value in base-10. Underflow is a
// no-op. Any write error aborts the run (spec §7: output I/O errors
// are fatal) by panicking with a distinguishable error, which Run/
// RunUntil's caller sees via the returned error from Step — see
// writeOrPanic.
func opOutNumber(p *Program, _ int) {
	a, ok := p.stack.TryPop()
	if !ok {
		return
	}
	writeOrPanic(p.io, []byte(a.String()))
}

// opOutChar pops and, if the value is a valid Unicode scalar value,
// writes that character; otherwise no-op. Underflow is a no-op.
func opOutChar(p *Program, _ int) {
	a, ok := p.stack.TryPop()
	if !ok {
		return
	}
	if !a.IsInt64() {
		return
	}
	n := a.Int64()
	if n < 0 || n > utf8.MaxRune || (n >= 0xD800 && n <= 0xDFFF) {
		return
	}
	var buf [utf8.UTFMax]byte
	width := utf8.EncodeRune(buf[:], rune(n))
	writeOrPanic(p.io, buf[:width])
}

// ioWriteError wraps a fatal output-channel error so Step/Run can
// surface it distinctly (spec §7: "I/O errors on the output channel
// are treated as fatal: the engine aborts the run").
type ioWriteError struct{ err error }

func (e *ioWriteError) Error() string { return fmt.Sprintf("pietvm: output channel write failed: %v", e.err) }
func (e *ioWriteError) Unwrap() error { return e.err }

func writeOrPanic(ch pietio.Channel, p []byte) {
	if _, err := ch.Write(p); err != nil {
		panic(&ioWriteError{err: err})
	}
}
