package types

import "testing"

func TestPointerIdentity(t *testing.T) {
	f := NewFactory()
	a, _ := f.GetPointer(f.GetInteger())
	b, _ := f.GetPointer(f.GetInteger())
	if a != b {
		t.Error("GetPointer(T) should return the same pointer for equal T")
	}
}

func TestReferenceToReferenceRejected(t *testing.T) {
	f := NewFactory()
	ref, err := f.GetReference(f.GetInteger())
	if err != nil {
		t.Fatalf("GetReference(Integer) should succeed: %v", err)
	}
	if _, err := f.GetReference(ref); err == nil {
		t.Error("GetReference(REF T) should be rejected")
	}
}

func TestPointerToReferenceRejected(t *testing.T) {
	f := NewFactory()
	ref, _ := f.GetReference(f.GetInteger())
	if _, err := f.GetPointer(ref); err == nil {
		t.Error("GetPointer(REF T) should be rejected")
	}
}

func TestFunctionTypeDedup(t *testing.T) {
	f := NewFactory()
	a := f.GetFunction([]*Type{f.GetInteger(), f.GetBool()}, f.GetVoid(), false)
	b := f.GetFunction([]*Type{f.GetInteger(), f.GetBool()}, f.GetVoid(), false)
	if a != b {
		t.Error("identical signatures should produce the same function type")
	}
	c := f.GetFunction([]*Type{f.GetBool(), f.GetInteger()}, f.GetVoid(), false)
	if a == c {
		t.Error("a different parameter permutation must be a distinct type")
	}
	d := f.GetFunction([]*Type{f.GetInteger(), f.GetBool()}, f.GetBool(), false)
	if a == d {
		t.Error("a different return type must be a distinct type")
	}
}

func TestCompareLongFromInteger(t *testing.T) {
	f := NewFactory()
	cmp := f.Compare(f.GetLong(), f.GetInteger())
	if cmp.Result != Convertible || cmp.Size != Added || cmp.Sign != Unchanged {
		t.Errorf("Long<-Integer: got %+v", cmp)
	}
}

func TestCompareIntegerFromULong(t *testing.T) {
	f := NewFactory()
	cmp := f.Compare(f.GetInteger(), f.GetULong())
	if cmp.Result != Incompatible {
		t.Errorf("Integer<-ULong should be Incompatible (narrowing), got %+v", cmp)
	}
}

func TestCompareAnyPtrFromPointer(t *testing.T) {
	f := NewFactory()
	pInt, _ := f.GetPointer(f.GetInteger())
	cmp := f.Compare(f.GetAnyPtr(), pInt)
	if cmp.Result != Convertible {
		t.Errorf("ANY PTR<-INTEGER PTR should be Convertible, got %+v", cmp)
	}
}

func TestComparePointerFromNull(t *testing.T) {
	f := NewFactory()
	pInt, _ := f.GetPointer(f.GetInteger())
	cmp := f.Compare(pInt, f.GetNull())
	if cmp.Result != Convertible {
		t.Errorf("INTEGER PTR<-NULL should be Convertible, got %+v", cmp)
	}
}

func TestCompareDoubleFromInteger(t *testing.T) {
	f := NewFactory()
	cmp := f.Compare(f.GetDouble(), f.GetInteger())
	if cmp.Result != Convertible || cmp.Precision != Added {
		t.Errorf("Double<-Integer should be Convertible with precision Added, got %+v", cmp)
	}
	if cmp := f.Compare(f.GetInteger(), f.GetDouble()); cmp.Result != Incompatible {
		t.Errorf("Integer<-Double is a narrowing and should be Incompatible, got %+v", cmp)
	}
}

func TestCompareBoolFromInteger(t *testing.T) {
	f := NewFactory()
	cmp := f.Compare(f.GetBool(), f.GetInteger())
	if cmp.Result != Incompatible {
		t.Errorf("Bool<-Integer should be Incompatible, got %+v", cmp)
	}
}

func TestCommon(t *testing.T) {
	f := NewFactory()
	if got := f.Common(f.GetInteger(), f.GetLong()); got != f.GetLong() {
		t.Errorf("common(Int, Long) should be Long, got %v", got)
	}
	if got := f.Common(f.GetInteger(), f.GetDouble()); got != f.GetDouble() {
		t.Errorf("common(Int, Double) should be Double, got %v", got)
	}
	if got := f.Common(f.GetInteger(), f.GetBool()); got != nil {
		t.Errorf("common(Int, Bool) should be None, got %v", got)
	}
}

func TestRemoveReference(t *testing.T) {
	f := NewFactory()
	ref, _ := f.GetReference(f.GetInteger())
	if got := RemoveReference(ref); got != f.GetInteger() {
		t.Errorf("RemoveReference should unwrap to Integer, got %v", got)
	}
	if got := RemoveReference(f.GetInteger()); got != f.GetInteger() {
		t.Error("RemoveReference on a non-reference should be a no-op")
	}
}
