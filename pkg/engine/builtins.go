package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/cellwfc/pkg/catalog"
	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/wfc"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms rule script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: cell-size -> cell_size
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpCell wraps a grid coordinate returned by `cell`.
type sexpCell struct {
	coord grid.Coord
}

func (c *sexpCell) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cell %d %d %d)", c.coord.X, c.coord.Y, c.coord.Z)
}
func (c *sexpCell) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a vector returned by `vec3`.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpModuleRef is returned by `module` so scripts can bind a module to a
// variable and pass it to rule builtins instead of its name.
type sexpModuleRef struct {
	name string
}

func (m *sexpModuleRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(module %q)", m.name)
}
func (m *sexpModuleRef) Type() *zygo.RegisteredType { return nil }

// sexpRule wraps a declared rule.
type sexpRule struct {
	rule wfc.Rule
}

func (r *sexpRule) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rule %q)", r.rule.String())
}
func (r *sexpRule) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toModuleName accepts a module name string or a module reference.
func toModuleName(s zygo.Sexp) (string, error) {
	if ref, ok := s.(*sexpModuleRef); ok {
		return ref.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected module name or reference: %w", err)
	}
	return name, nil
}

// toDirection converts :pos-x / :neg-z keywords or "+x" / "-z" strings.
func toDirection(s zygo.Sexp) (grid.Direction, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return grid.Direction{}, fmt.Errorf("expected face (:pos-x, :neg-y, \"+z\"): %w", err)
	}
	switch {
	case strings.HasPrefix(name, "pos-"):
		name = "+" + strings.TrimPrefix(name, "pos-")
	case strings.HasPrefix(name, "neg-"):
		name = "-" + strings.TrimPrefix(name, "neg-")
	}
	return grid.ParseDirection(name)
}

// toCell extracts a coordinate from a sexpCell.
func toCell(s zygo.Sexp) (grid.Coord, error) {
	if c, ok := s.(*sexpCell); ok {
		return c.coord, nil
	}
	return grid.Coord{}, fmt.Errorf("expected cell, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the rule DSL into a zygomys environment. The
// builtins populate c during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *catalog.Catalog) {

	// -----------------------------------------------------------------------
	// (cell-size 2) or (cell-size 2 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("cell_size", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var vals []float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cell-size: argument %d: %w", i+1, err)
			}
			vals = append(vals, f)
		}
		var size v3.Vec
		switch len(vals) {
		case 1:
			size = v3.Vec{X: vals[0], Y: vals[0], Z: vals[0]}
		case 3:
			size = v3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}
		default:
			return zygo.SexpNull, fmt.Errorf("cell-size requires 1 or 3 numbers, got %d", len(vals))
		}
		if err := grid.ValidateCellSize(size); err != nil {
			return zygo.SexpNull, fmt.Errorf("cell-size: %w", err)
		}
		c.SetCellSize(size)
		return &sexpVec3{vec: size}, nil
	})

	// -----------------------------------------------------------------------
	// (cell 1 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("cell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("cell requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]int
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cell: %c: %w", "xyz"[i], err)
			}
			xyz[i] = n
		}
		return &sexpCell{coord: grid.Coord{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (module "corner" :at (vec3 4 0 0) (cell 0 0 0) (cell 1 0 0))
	// (module "beam" :cells (list (cell 0 0 0) (cell 0 0 1)))
	// -----------------------------------------------------------------------
	env.AddFunction("module", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("module requires a name argument")
		}
		modName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("module: name: %w", err)
		}

		spec := catalog.ModuleSpec{Name: modName}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("module %q: at: %w", modName, err)
			}
			spec.Origin = at
		}

		cellArgs := pa.positional[1:]
		if v, ok := pa.kw["cells"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("module %q: cells: %w", modName, err)
			}
			cellArgs = append(cellArgs, items...)
		}
		for i, a := range cellArgs {
			cell, err := toCell(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("module %q: cell %d: %w", modName, i+1, err)
			}
			spec.Cells = append(spec.Cells, cell)
		}

		c.AddModule(spec)
		return &sexpModuleRef{name: modName}, nil
	})

	// -----------------------------------------------------------------------
	// (connector 1 :neg-x) => index of the -x face of submodule 1
	// -----------------------------------------------------------------------
	env.AddFunction("connector", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("connector requires a submodule index and a face, got %d arguments", len(args))
		}
		k, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connector: submodule: %w", err)
		}
		if k < 0 {
			return zygo.SexpNull, fmt.Errorf("connector: submodule index %d is negative", k)
		}
		d, err := toDirection(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connector: face: %w", err)
		}
		return &zygo.SexpInt{Val: int64(wfc.ConnectorIndex(k, d))}, nil
	})

	// -----------------------------------------------------------------------
	// (typed "corner" 0 "wall")
	// -----------------------------------------------------------------------
	env.AddFunction("typed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("typed requires a module, a connector and a type, got %d arguments", len(args))
		}
		r, err := typedRule(args[0], args[1], args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("typed: %w", err)
		}
		c.AddRule(r)
		return &sexpRule{rule: r}, nil
	})

	// -----------------------------------------------------------------------
	// (explicit "corner" 3 "beam" 0)
	// -----------------------------------------------------------------------
	env.AddFunction("explicit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("explicit requires two module/connector pairs, got %d arguments", len(args))
		}
		src, err := toModuleName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("explicit: source: %w", err)
		}
		srcIdx, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("explicit: source connector: %w", err)
		}
		dst, err := toModuleName(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("explicit: target: %w", err)
		}
		dstIdx, err := toInt(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("explicit: target connector: %w", err)
		}
		r, err := wfc.NewRuleExplicit(src, srcIdx, dst, dstIdx)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("explicit: %w", err)
		}
		c.AddRule(r)
		return &sexpRule{rule: r}, nil
	})

	// -----------------------------------------------------------------------
	// (indifferent "corner" 1 4 5)
	// -----------------------------------------------------------------------
	env.AddFunction("indifferent", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("indifferent requires a module and at least one connector")
		}
		typ := &zygo.SexpStr{S: wfc.IndifferentType}
		for _, idx := range args[1:] {
			r, err := typedRule(args[0], idx, typ)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("indifferent: %w", err)
			}
			c.AddRule(r)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (typed-all "corner" "wall") tags every external connector
	// -----------------------------------------------------------------------
	env.AddFunction("typed_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("typed-all requires a module and a type, got %d arguments", len(args))
		}
		modName, err := toModuleName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("typed-all: %w", err)
		}
		typ, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("typed-all: type: %w", err)
		}
		spec, ok := c.Lookup(modName)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("typed-all: no module named %q", modName)
		}
		m, err := wfc.NewModule(spec.Name, nil, spec.Frame(), spec.Cells, c.CellSize)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("typed-all: %w", err)
		}
		rules, err := m.TypedRules(typ)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("typed-all: %w", err)
		}
		for _, r := range rules {
			c.AddRule(r)
		}
		return &zygo.SexpInt{Val: int64(len(rules))}, nil
	})
}

// typedRule builds a typed rule from module, connector and type arguments.
// The type may be a string or a keyword.
func typedRule(module, connector, typ zygo.Sexp) (wfc.RuleTyped, error) {
	modName, err := toModuleName(module)
	if err != nil {
		return wfc.RuleTyped{}, err
	}
	idx, err := toInt(connector)
	if err != nil {
		return wfc.RuleTyped{}, fmt.Errorf("connector: %w", err)
	}
	t, err := toKeywordString(typ)
	if err != nil {
		return wfc.RuleTyped{}, fmt.Errorf("type: %w", err)
	}
	return wfc.NewRuleTyped(modName, idx, t)
}
