// Package capability decides which mutating operations the server may
// perform. The gate comes from SMARTCUT_ALLOWED_TARGETS (or the
// allowed_targets config key): "capcut" permits writing CapCut draft
// projects, "source" permits writing rendered media files, "all"
// permits both. Unset means read-only.
package capability

import (
	"fmt"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

type Target string

const (
	TargetNone   Target = ""
	TargetCapCut Target = "capcut"
	TargetSource Target = "source"
	TargetAll    Target = "all"
)

// Parse maps a config value onto a Target. The empty string is valid
// and means no mutations are allowed.
func Parse(s string) (Target, error) {
	switch Target(s) {
	case TargetNone, TargetCapCut, TargetSource, TargetAll:
		return Target(s), nil
	default:
		return TargetNone, fmt.Errorf("unknown allowed target %q", s)
	}
}

// CanModifyProjects reports whether CapCut draft projects may be written.
func (t Target) CanModifyProjects() bool {
	return t == TargetCapCut || t == TargetAll
}

// CanModifySource reports whether rendered media files may be written.
func (t Target) CanModifySource() bool {
	return t == TargetSource || t == TargetAll
}

func (t Target) ReadOnly() bool {
	return !t.CanModifyProjects() && !t.CanModifySource()
}

// RequireProjects returns a permission error unless CapCut drafts are
// writable. Handlers call this before any draft mutation so the gate
// holds even if tool registration was wider than it should be.
func (t Target) RequireProjects() error {
	if t.CanModifyProjects() {
		return nil
	}
	return errdefs.Permission("modifying CapCut projects is disabled: set SMARTCUT_ALLOWED_TARGETS to capcut or all")
}

// RequireSource returns a permission error unless rendered media files
// are writable.
func (t Target) RequireSource() error {
	if t.CanModifySource() {
		return nil
	}
	return errdefs.Permission("modifying source media is disabled: set SMARTCUT_ALLOWED_TARGETS to source or all")
}

// RequireAny returns a permission error when no mutation target is
// enabled at all.
func (t Target) RequireAny() error {
	if !t.ReadOnly() {
		return nil
	}
	return errdefs.Permission("all mutations are disabled: set SMARTCUT_ALLOWED_TARGETS to capcut, source or all")
}

func (t Target) String() string {
	if t == TargetNone {
		return "read-only"
	}
	return string(t)
}
