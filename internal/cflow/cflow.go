// Package cflow tracks the enclosing FOR/DO nest during semantic analysis,
// so EXIT and CONTINUE statements can validate their target against the
// control-flow stack active at that point in the traversal (spec.md §3/§9:
// "a growable stack of (statement-kind, data) entries... find(from, kind)
// supports skipping levels").
//
// The teacher only tracked this as scalar loopDepth/inLoop booleans
// (internal/semantic/analyzer.go), because DWScript's break/continue are
// unconditional and untargeted. LightBASIC's NEXT name and distance-based
// EXIT/CONTINUE need a real addressable stack, so this is new relative to
// the teacher.
package cflow

import "github.com/lbc-lang/lbc/internal/ast"

// Frame is one entry on the stack: the loop construct's kind (ast.KindForStmt
// or ast.KindDoLoopStmt) and an optional name (a FOR loop's NEXT name).
type Frame struct {
	Kind ast.Kind
	Name string
}

// Stack is a growable LIFO of enclosing loop frames. The zero value is an
// empty stack, ready to use.
type Stack struct {
	frames []Frame
}

// Push enters a new loop, making it the innermost (distance 0) frame.
func (s *Stack) Push(f Frame) { s.frames = append(s.frames, f) }

// Pop leaves the innermost loop. It panics if the stack is empty — callers
// must pair every Push with exactly one Pop around the loop body visit.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		panic("cflow: Pop on an empty stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Len reports how many loops currently enclose the traversal point.
func (s *Stack) Len() int { return len(s.frames) }

// Innermost returns the nearest enclosing frame, or false if none.
func (s *Stack) Innermost() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Find walks outward `from` levels (0 = innermost) looking for the nearest
// frame at or beyond that distance whose Kind matches kind (ast.KindForStmt
// or ast.KindDoLoopStmt; pass 0 to accept either). It reports the absolute
// distance from the innermost frame, or ok == false if no such frame exists.
func (s *Stack) Find(from int, kind ast.Kind) (distance int, ok bool) {
	for i := from; i < len(s.frames); i++ {
		f := s.frames[len(s.frames)-1-i]
		if kind == 0 || f.Kind == kind {
			return i, true
		}
	}
	return 0, false
}

// FindNamed walks the stack looking for a FOR frame whose Name matches name
// (case-sensitive; the parser/analyser is responsible for folding), as used
// to validate a `NEXT name` against its opening `FOR`.
func (s *Stack) FindNamed(name string) (distance int, ok bool) {
	for i := 0; i < len(s.frames); i++ {
		f := s.frames[len(s.frames)-1-i]
		if f.Kind == ast.KindForStmt && f.Name == name {
			return i, true
		}
	}
	return 0, false
}
