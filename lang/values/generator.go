package values

import "fmt"

// GeneratorState is the lifecycle state of a Generator, per spec.md §4.4.
type GeneratorState uint8

const (
	GeneratorNotStarted GeneratorState = iota
	GeneratorSuspended
	GeneratorReturned
)

// GeneratorFrame is the minimal frame-shaped state a Generator needs to
// resume execution; lang/machine implements the concrete type satisfying
// this interface (a *machine.Frame) so lang/values need not import
// lang/machine.
type GeneratorFrame interface {
	// Resume runs the frame from its current pc with resumeArg pushed onto
	// the operand stack (per spec.md §4.4's resume_frame), returning exactly
	// one of (yielded value, false, nil), (returned value, true, nil), or
	// (nil, false, err).
	Resume(resumeArg Value) (val Value, returned bool, err error)
}

// Generator is a resumable user closure holding a Frame, per spec.md §3.
type Generator struct {
	Name  string
	Frame GeneratorFrame
	State GeneratorState
}

func (g *Generator) String() string { return fmt.Sprintf("<generator %s>", g.Name) }
func (g *Generator) Type() string   { return "generator" }
func (g *Generator) Truth() bool    { return true }

// Resume drives the generator one step: starts it on the first call,
// resumes it thereafter. A generator that has already returned yields
// (Nil, true, nil) on every subsequent call, per spec.md §4.4.
func (g *Generator) Resume(arg Value) (Value, bool, error) {
	if g.State == GeneratorReturned {
		return TheNil, true, nil
	}
	g.State = GeneratorSuspended
	val, returned, err := g.Frame.Resume(arg)
	if err != nil {
		g.State = GeneratorReturned
		return nil, false, err
	}
	if returned {
		g.State = GeneratorReturned
	}
	return val, returned, nil
}

// NativeGeneratorFunc is the Go implementation of a NativeGenerator: it is
// called once per resume with the resume argument and the 0-based resume
// count, returning (value, done, err).
type NativeGeneratorFunc func(arg Value, step int) (Value, bool, error)

// NativeGenerator is a resumable host callback, the native-code analogue
// of Generator.
type NativeGenerator struct {
	Name  string
	Fn    NativeGeneratorFunc
	step  int
	State GeneratorState
}

func (g *NativeGenerator) String() string { return fmt.Sprintf("<native generator %s>", g.Name) }
func (g *NativeGenerator) Type() string   { return "native_generator" }
func (g *NativeGenerator) Truth() bool    { return true }

// Resume drives the native generator one step, following the same
// already-returned contract as Generator.Resume.
func (g *NativeGenerator) Resume(arg Value) (Value, bool, error) {
	if g.State == GeneratorReturned {
		return TheNil, true, nil
	}
	val, done, err := g.Fn(arg, g.step)
	g.step++
	if err != nil {
		g.State = GeneratorReturned
		return nil, false, err
	}
	if done {
		g.State = GeneratorReturned
	} else {
		g.State = GeneratorSuspended
	}
	return val, done, nil
}
