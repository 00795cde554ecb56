package wfc

import "errors"

// Construction errors. They are always wrapped with context, so compare
// with errors.Is.
var (
	ErrEmptyName          = errors.New("wfc: name must not be empty")
	ErrReservedName       = errors.New("wfc: module name is reserved")
	ErrEmptyType          = errors.New("wfc: connector type must not be empty")
	ErrNegativeIndex      = errors.New("wfc: connector index must not be negative")
	ErrNoSubmodules       = errors.New("wfc: module needs at least one submodule")
	ErrDuplicateSubmodule = errors.New("wfc: duplicate submodule coordinate")
	ErrDuplicateModule    = errors.New("wfc: duplicate module name")
	ErrAxisLabel          = errors.New("wfc: axis label must be x, y, or z")
)
