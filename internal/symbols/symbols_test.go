package symbols

import "testing"

func TestTableRecursiveLookup(t *testing.T) {
	root := NewTable(nil)
	root.Insert(&Symbol{Name: "X", Flags: Declared | Variable})

	child := NewTable(root)
	if _, ok := child.Local("X"); ok {
		t.Fatal("Local should not see parent scope")
	}
	sym, ok := child.Find("x", true)
	if !ok || sym.Name != "X" {
		t.Fatalf("recursive Find should fold case and see the parent: got %v, %v", sym, ok)
	}
	if _, ok := child.Find("X", false); ok {
		t.Fatal("non-recursive Find must not walk to the parent")
	}
}

func TestSymbolSetDefinedOnce(t *testing.T) {
	sym := &Symbol{Name: "Foo", Flags: Declared}
	sym.SetDefined()
	if !sym.Is(Defined) || sym.Is(Declared) {
		t.Fatalf("expected only Defined set, got %v", sym.Flags)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected SetDefined to panic on a second call")
		}
	}()
	sym.SetDefined()
}

func TestTableOrderPreserved(t *testing.T) {
	root := NewTable(nil)
	root.Insert(&Symbol{Name: "A"})
	root.Insert(&Symbol{Name: "B"})
	root.Insert(&Symbol{Name: "C"})
	all := root.All()
	if len(all) != 3 || all[0].Name != "A" || all[2].Name != "C" {
		t.Fatalf("expected declaration order A,B,C, got %v", all)
	}
}
