package errdefs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestConstructorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		is   func(error) bool
	}{
		{"format", Format("missing %s", "draft_info.json"), KindFormat, IsFormat},
		{"planning", Planning("transcript has no segments"), KindPlanning, IsPlanning},
		{"apply", Apply("material %s not found", "ABC"), KindApply, IsApply},
		{"permission", Permission("target not allowed"), KindPermission, IsPermission},
		{"io", IO("rename failed"), KindIO, IsIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !tt.is(tt.err) {
				t.Errorf("predicate for %v returned false", tt.kind)
			}
			if KindOf(tt.err) != tt.kind {
				t.Errorf("KindOf() = %v, want %v", KindOf(tt.err), tt.kind)
			}
		})
	}
}

func TestPredicatesRejectOtherKinds(t *testing.T) {
	err := Planning("bad group")
	if IsFormat(err) {
		t.Error("IsFormat() true for planning error")
	}
	if IsFormat(errors.New("plain")) {
		t.Error("IsFormat() true for plain error")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Errorf("KindOf(plain) = %q, want empty", KindOf(errors.New("plain")))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fs.ErrNotExist
	err := Wrap(KindIO, cause, "stage content document")

	if !IsIO(err) {
		t.Error("wrapped error lost its kind")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is() does not reach the cause")
	}
	if got := err.Error(); got != "io: stage content document: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindSurvivesFurtherWrapping(t *testing.T) {
	inner := Permission("in-place save requires the source target")
	outer := fmt.Errorf("save project: %w", inner)

	if !IsPermission(outer) {
		t.Error("IsPermission() false after fmt.Errorf wrapping")
	}
}

func TestWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := IO("write meta document").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("WithCause() not reachable via errors.Is")
	}
}
