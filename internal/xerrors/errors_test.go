package xerrors

import (
	"errors"
	"go/token"
	"testing"
)

func TestUnsupported_CarriesKindAndMessage(t *testing.T) {
	err := Unsupported(token.Pos(5), "nested type declaration")
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected a *TransformError, got %T", err)
	}
	if te.Kind != UnsupportedConstruct {
		t.Errorf("Kind = %s, want %s", te.Kind, UnsupportedConstruct)
	}
	if te.Pos != token.Pos(5) {
		t.Errorf("Pos = %d, want 5", te.Pos)
	}
}

func TestAttrError_CarriesAttributeParseKind(t *testing.T) {
	err := AttrError("bad option")
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected a *TransformError, got %T", err)
	}
	if te.Kind != AttributeParse {
		t.Errorf("Kind = %s, want %s", te.Kind, AttributeParse)
	}
}

func TestEmissionError_WrapsCause(t *testing.T) {
	cause := errors.New("1:1: expected declaration")
	err := EmissionError(cause)
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected a *TransformError, got %T", err)
	}
	if te.Kind != EmissionParse {
		t.Errorf("Kind = %s, want %s", te.Kind, EmissionParse)
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the underlying cause")
	}
}

func TestTransformError_ErrorIncludesMessage(t *testing.T) {
	err := Unsupported(token.NoPos, "labeled switch")
	if got := err.Error(); got == "" {
		t.Fatal("expected a non-empty error string")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrAmbiguousLabel, ErrLabelNotFound, ErrBranchOutsideLoop, ErrUnreachableState}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}
