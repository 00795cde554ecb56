package wfc

import "fmt"

// ConnectorResolver looks up connectors by module name and index. Rules
// are validated and expanded against a resolver, usually a ModuleSet.
type ConnectorResolver interface {
	Connector(module string, index int) (Connector, bool)
}

// ModuleSet is a read-only collection of modules with unique names.
type ModuleSet struct {
	modules []*Module
	byName  map[string]*Module
}

// NewModuleSet indexes modules by name. Duplicate names are an error.
func NewModuleSet(modules ...*Module) (*ModuleSet, error) {
	s := &ModuleSet{
		modules: make([]*Module, 0, len(modules)),
		byName:  make(map[string]*Module, len(modules)),
	}
	for _, m := range modules {
		if _, ok := s.byName[m.Name()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateModule, m.Name())
		}
		s.byName[m.Name()] = m
		s.modules = append(s.modules, m)
	}
	return s, nil
}

// Lookup returns the module with the given name (case-insensitive).
func (s *ModuleSet) Lookup(name string) (*Module, bool) {
	m, ok := s.byName[normalizeName(name)]
	return m, ok
}

// Connector implements ConnectorResolver.
func (s *ModuleSet) Connector(module string, index int) (Connector, bool) {
	m, ok := s.Lookup(module)
	if !ok {
		return Connector{}, false
	}
	return m.ConnectorAt(index)
}

// Modules returns the modules in insertion order.
func (s *ModuleSet) Modules() []*Module {
	return append([]*Module(nil), s.modules...)
}

// Len returns the number of modules.
func (s *ModuleSet) Len() int { return len(s.modules) }

// SubmoduleNames returns every submodule name of every module, in module
// order.
func (s *ModuleSet) SubmoduleNames() []string {
	var names []string
	for _, m := range s.modules {
		names = append(names, m.SubmoduleNames()...)
	}
	return names
}
