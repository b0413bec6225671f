package trip

import (
	"errors"
	"fmt"
)

// Sentinel state errors. The HTTP layer maps these to 404/409 so the
// dashboard can tell "refresh your view" apart from "fix your input".
var (
	ErrNotFound        = errors.New("trip not found")
	ErrAlreadyFinished = errors.New("trip is already finished")
	ErrNoActiveTrip    = errors.New("truck has no active trip")
	ErrTruckBusy       = errors.New("truck already has an active trip")
	ErrNotSettled      = errors.New("trip is not settled yet")
	ErrEmptyDispatch   = errors.New("a trip must dispatch at least one product or crate line")
)

// InvalidDateError reports a trip date that could not be parsed.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid trip date: %q", e.Value)
}

// InvalidQuantityError reports a negative quantity or amount, naming the
// field so the form can highlight it.
type InvalidQuantityError struct {
	Field string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity: %s must not be negative", e.Field)
}

// MissingFieldError reports a required reference left empty on start.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// UnknownReferenceError reports a product/box/truck/employee id that does
// not resolve against the catalog.
type UnknownReferenceError struct {
	Kind string // "product", "box", "truck", "employee"
	Ref  string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s reference: %s", e.Kind, e.Ref)
}

// DuplicateLineError reports the same product or crate appearing twice in
// a dispatch or a return. Lines are keyed by catalog id; a duplicate would
// make the conservation check ambiguous, so it is rejected outright.
type DuplicateLineError struct {
	Kind string // "product" or "box"
	Ref  string
}

func (e *DuplicateLineError) Error() string {
	return fmt.Sprintf("duplicate %s line: %s appears more than once", e.Kind, e.Ref)
}

// OverReturnError reports a return that exceeds what was dispatched. For
// products the comparison is on total units (crates converted via the
// per-crate capacity), for crates it is a plain count comparison.
type OverReturnError struct {
	Kind          string // "product" or "box"
	Designation   string
	UnitsOut      int
	UnitsReturned int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("over-return on %s %q: returned %d, dispatched %d",
		e.Kind, e.Designation, e.UnitsReturned, e.UnitsOut)
}

// InvalidWasteError reports a malformed waste line (missing product, empty
// type or non-positive quantity).
type InvalidWasteError struct {
	Index  int
	Reason string
}

func (e *InvalidWasteError) Error() string {
	return fmt.Sprintf("invalid waste line %d: %s", e.Index, e.Reason)
}

// InvalidChargeError reports a malformed charge line (empty type or
// non-positive amount).
type InvalidChargeError struct {
	Index  int
	Reason string
}

func (e *InvalidChargeError) Error() string {
	return fmt.Sprintf("invalid charge line %d: %s", e.Index, e.Reason)
}
