package cflow

import (
	"testing"

	"github.com/lbc-lang/lbc/internal/ast"
)

func TestFindDistance(t *testing.T) {
	var s Stack
	s.Push(Frame{Kind: ast.KindForStmt, Name: "OUTER"})
	s.Push(Frame{Kind: ast.KindDoLoopStmt})
	s.Push(Frame{Kind: ast.KindForStmt, Name: "INNER"})

	if dist, ok := s.Find(0, ast.KindForStmt); !ok || dist != 0 {
		t.Errorf("innermost FOR: got %d, %v", dist, ok)
	}
	if dist, ok := s.Find(1, ast.KindForStmt); !ok || dist != 2 {
		t.Errorf("FOR skipping the DO: got %d, %v", dist, ok)
	}
	if dist, ok := s.FindNamed("OUTER"); !ok || dist != 2 {
		t.Errorf("named OUTER: got %d, %v", dist, ok)
	}
}

func TestFindNoMatch(t *testing.T) {
	var s Stack
	s.Push(Frame{Kind: ast.KindDoLoopStmt})
	if _, ok := s.Find(0, ast.KindForStmt); ok {
		t.Error("expected no FOR frame to be found")
	}
}

func TestPopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Pop on empty stack to panic")
		}
	}()
	var s Stack
	s.Pop()
}
