package types

import "errors"

var (
	errPtrRef = errors.New("types: cannot take a pointer to a reference type")
	errRefRef = errors.New("types: cannot take a reference to a reference type")
)

// Result classifies how `from` relates to `target`.
type Result int

const (
	Incompatible Result = iota
	Convertible
	Identical
)

func (r Result) String() string {
	switch r {
	case Identical:
		return "Identical"
	case Convertible:
		return "Convertible"
	default:
		return "Incompatible"
	}
}

// Flag reports whether one facet of the comparison changed going from
// `from` to `target`.
type Flag int

const (
	Unchanged Flag = iota
	Added
	Removed
)

// Comparison is the full result of Compare: not just whether a conversion
// exists, but what changed (sign, reference-ness, size, precision) — the
// code generator uses these flags to decide which conversion instruction to
// emit.
type Comparison struct {
	Result    Result
	Sign      Flag
	Reference Flag
	Size      Flag
	Precision Flag
}

// Compare implements spec.md §4.4's `compare(target, from)` relation: a
// leading reference on `from` is stripped first (noted via Reference =
// Removed), then the numbered rules below are applied.
func (f *Factory) Compare(target, from *Type) Comparison {
	refFlag := Unchanged
	if from.Kind == KindReference {
		from = from.Base
		refFlag = Removed
	}

	// Rule 1: pointer equality.
	if target == from {
		return Comparison{Result: Identical, Reference: refFlag}
	}

	// Rule 5: target is itself a reference — compare the referent, then
	// upgrade a non-Incompatible result to Convertible with reference Added.
	if target.Kind == KindReference {
		inner := f.Compare(target.Base, from)
		if inner.Result != Incompatible {
			inner.Result = Convertible
			inner.Reference = Added
		}
		return inner
	}

	switch {
	case target.Kind == KindIntegral && from.Kind == KindIntegral:
		// Rule 2.
		if target.Bytes > from.Bytes && (target.Signed || !from.Signed) {
			sign := Unchanged
			if target.Signed && !from.Signed {
				sign = Added
			}
			return Comparison{Result: Convertible, Sign: sign, Size: Added, Reference: refFlag}
		}
		return Comparison{Result: Incompatible, Reference: refFlag}

	case target.Kind == KindFloat && from.Kind == KindFloat:
		// Rule 3.
		if target.Bytes > from.Bytes {
			return Comparison{Result: Convertible, Size: Added, Reference: refFlag}
		}
		return Comparison{Result: Incompatible, Reference: refFlag}

	case target.Kind == KindFloat && from.Kind == KindIntegral:
		// Numeric promotion: a float target absorbs any integral width, so
		// mixed int/float arithmetic has a common type. The reverse
		// (integral <- float) is a narrowing and stays Incompatible.
		return Comparison{Result: Convertible, Precision: Added, Reference: refFlag}

	case target.Kind == KindPointer && from.Kind == KindPointer:
		// Rule 4: same-type case already returned Identical above.
		if target == f.anyPtr {
			return Comparison{Result: Convertible, Reference: refFlag}
		}
		return Comparison{Result: Incompatible, Reference: refFlag}

	case target.Kind == KindPointer && from == f.null:
		// Rule 4: NULL converts to any pointer type.
		return Comparison{Result: Convertible, Reference: refFlag}

	default:
		// Rule 6.
		return Comparison{Result: Incompatible, Reference: refFlag}
	}
}

// Common returns the "wider" type that both a and b can convert to, or nil
// if neither can convert to the other.
func (f *Factory) Common(a, b *Type) *Type {
	if a == b {
		return a
	}
	if f.Compare(a, b).Result != Incompatible {
		return a
	}
	if f.Compare(b, a).Result != Incompatible {
		return b
	}
	return nil
}

// Castable is the laxer relation AS uses: identity, any numeric↔numeric, and
// any pointer↔pointer are always castable, independent of Compare.
func (f *Factory) Castable(target, source *Type) bool {
	if target == source {
		return true
	}
	if target.IsNumeric() && source.IsNumeric() {
		return true
	}
	if target.IsPointer() && source.IsPointer() {
		return true
	}
	return false
}

// RemoveReference unwraps one reference level, or returns t unchanged if it
// is not a reference.
func RemoveReference(t *Type) *Type {
	if t.Kind == KindReference {
		return t.Base
	}
	return t
}
