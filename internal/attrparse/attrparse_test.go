package attrparse

import (
	"testing"

	"github.com/aalbacetef/gocoro/internal/hostast"
	"github.com/aalbacetef/gocoro/internal/xerrors"
)

func TestParse_Empty_YieldsDefaults(t *testing.T) {
	d, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	text, err := hostast.RenderExpr(d.StateExpr)
	if err != nil {
		t.Fatalf("RenderExpr: %v", err)
	}
	if text != "self.state" {
		t.Errorf("default state expr = %q, want %q", text, "self.state")
	}
	if d.RetVal != nil {
		t.Error("expected no default ret_val")
	}
}

func TestParse_StateOnly(t *testing.T) {
	d, err := Parse("state=self.s")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	text, err := hostast.RenderExpr(d.StateExpr)
	if err != nil {
		t.Fatalf("RenderExpr: %v", err)
	}
	if text != "self.s" {
		t.Errorf("state expr = %q, want %q", text, "self.s")
	}
}

func TestParse_BothOptionsEitherOrder(t *testing.T) {
	a, err := Parse("state=self.s, ret_val=0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse("ret_val=0, state=self.s")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, d := range []Directive{a, b} {
		stateText, _ := hostast.RenderExpr(d.StateExpr)
		retText, _ := hostast.RenderExpr(d.RetVal)
		if stateText != "self.s" || retText != "0" {
			t.Errorf("got state=%q ret_val=%q, want self.s / 0", stateText, retText)
		}
	}
}

func TestParse_NestedCommaInRetVal(t *testing.T) {
	d, err := Parse("state=self.s, ret_val=f(a, b)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	text, err := hostast.RenderExpr(d.RetVal)
	if err != nil {
		t.Fatalf("RenderExpr: %v", err)
	}
	if text != "f(a, b)" {
		t.Errorf("ret_val = %q, want %q", text, "f(a, b)")
	}
}

func TestParse_UnknownOptionFails(t *testing.T) {
	_, err := Parse("bogus=1")
	if err == nil {
		t.Fatal("expected an error for an unknown option")
	}
	var te *xerrors.TransformError
	if e, ok := err.(*xerrors.TransformError); ok {
		te = e
	} else {
		t.Fatalf("expected *xerrors.TransformError, got %T", err)
	}
	if te.Kind != xerrors.AttributeParse {
		t.Errorf("Kind = %s, want %s", te.Kind, xerrors.AttributeParse)
	}
}

func TestParse_MalformedOptionFails(t *testing.T) {
	if _, err := Parse("not-a-key-value-pair"); err == nil {
		t.Fatal("expected an error for a malformed option")
	}
}

func TestParse_InvalidExprFails(t *testing.T) {
	if _, err := Parse("state=("); err == nil {
		t.Fatal("expected an error for an unparsable expression")
	}
}
