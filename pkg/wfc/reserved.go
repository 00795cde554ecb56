package wfc

import "strings"

// Reserved identifiers shared with the solver and the host.
const (
	// EmptyModuleName is the module that fills a slot with nothing.
	EmptyModuleName = "empty"

	// OutModuleName is the module placed outside the world boundary.
	OutModuleName = "out"

	// IndifferentType is the connector type carried by every connector of
	// the reserved modules. It matches any opposing connector of the same
	// type.
	IndifferentType = "indifferent"
)

// IsReservedModuleName reports whether name (case-insensitive) belongs to a
// reserved module.
func IsReservedModuleName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EmptyModuleName, OutModuleName:
		return true
	}
	return false
}
