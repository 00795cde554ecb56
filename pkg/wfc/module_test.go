package wfc

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/cellwfc/pkg/grid"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var unitCell = v3.Vec{X: 1, Y: 1, Z: 1}

func mustModule(t *testing.T, name string, cells ...grid.Coord) *Module {
	t.Helper()
	m, err := NewModule(name, nil, grid.WorldXY, cells, unitCell)
	if err != nil {
		t.Fatalf("NewModule(%q): %v", name, err)
	}
	return m
}

func vecNear(a, b v3.Vec) bool {
	const tol = 1e-9
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestNewModuleErrors(t *testing.T) {
	tests := []struct {
		name    string
		modName string
		cells   []grid.Coord
		size    v3.Vec
		wantErr error
	}{
		{"empty name", "  ", []grid.Coord{{}}, unitCell, ErrEmptyName},
		{"no submodules", "a", nil, unitCell, ErrNoSubmodules},
		{"duplicate submodules", "a", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}}, unitCell, ErrDuplicateSubmodule},
		{"zero cell size", "a", []grid.Coord{{}}, v3.Vec{X: 1, Y: 0, Z: 1}, grid.ErrCellSize},
		{"negative cell size", "a", []grid.Coord{{}}, v3.Vec{X: -1, Y: 1, Z: 1}, grid.ErrCellSize},
		{"reserved empty", "Empty", []grid.Coord{{}}, unitCell, ErrReservedName},
		{"reserved out", "out", []grid.Coord{{}}, unitCell, ErrReservedName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModule(tt.modName, nil, grid.WorldXY, tt.cells, tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if m != nil {
				t.Error("expected nil module on error")
			}
		})
	}
}

func TestModuleNameLowercased(t *testing.T) {
	m := mustModule(t, "  Corner ", grid.Coord{})
	if m.Name() != "corner" {
		t.Errorf("Name() = %q, want %q", m.Name(), "corner")
	}
	if got := m.SubmoduleName(0); got != "corner_0" {
		t.Errorf("SubmoduleName(0) = %q", got)
	}
}

func TestConnectorOrdering(t *testing.T) {
	m := mustModule(t, "a", grid.Coord{X: 0, Y: 0, Z: 0}, grid.Coord{X: 1, Y: 0, Z: 0})
	conns := m.Connectors()
	if len(conns) != 12 {
		t.Fatalf("got %d connectors, want 12", len(conns))
	}
	dirs := grid.Directions()
	for i, c := range conns {
		if c.Index != i {
			t.Errorf("connector %d has Index %d", i, c.Index)
		}
		if c.Direction != dirs[i%6] {
			t.Errorf("connector %d faces %s, want %s", i, c.Direction, dirs[i%6])
		}
		if want := m.SubmoduleName(i / 6); c.SubmoduleName != want {
			t.Errorf("connector %d submodule = %q, want %q", i, c.SubmoduleName, want)
		}
		if c.ModuleName != "a" {
			t.Errorf("connector %d module = %q", i, c.ModuleName)
		}
	}
}

func TestConnectorValence(t *testing.T) {
	cells := []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1}}
	m := mustModule(t, "l", cells...)
	occupied := make(map[grid.Coord]bool)
	for _, c := range cells {
		occupied[c] = true
	}
	for _, conn := range m.Connectors() {
		cell := cells[SubmoduleIndex(conn.Index)]
		wantInternal := occupied[cell.Neighbor(conn.Direction)]
		if got := conn.Valence == Internal; got != wantInternal {
			t.Errorf("connector %d (%s of %v): internal = %v, want %v",
				conn.Index, conn.Direction, cell, got, wantInternal)
		}
	}
	// 4 cells * 6 faces - 2 * 3 adjacencies
	if got := len(m.ExternalConnectors()); got != 18 {
		t.Errorf("ExternalConnectors() = %d, want 18", got)
	}
}

func TestInternalRules(t *testing.T) {
	tests := []struct {
		name  string
		cells []grid.Coord
		want  int
	}{
		{"single", []grid.Coord{{}}, 0},
		{"pair x", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, 1},
		{"pair reversed", []grid.Coord{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}}, 1},
		{"gap", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}, 0},
		{"row of three", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}, 2},
		{"2x2 square", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}}, 4},
		{"2x2x2 cube", []grid.Coord{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
		}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustModule(t, "m", tt.cells...)
			rules := m.InternalRules()
			if len(rules) != tt.want {
				t.Fatalf("got %d internal rules, want %d", len(rules), tt.want)
			}
			for _, r := range rules {
				src, ok := m.ConnectorAt(r.SourceConnector)
				if !ok {
					t.Fatalf("rule %s: missing source connector", r)
				}
				dst, ok := m.ConnectorAt(r.TargetConnector)
				if !ok {
					t.Fatalf("rule %s: missing target connector", r)
				}
				if src.Direction.Orientation != grid.Positive {
					t.Errorf("rule %s: source faces %s, want a positive direction", r, src.Direction)
				}
				if !src.Direction.IsOpposite(dst.Direction) {
					t.Errorf("rule %s: %s and %s are not opposite", r, src.Direction, dst.Direction)
				}
				if src.Valence != Internal || dst.Valence != Internal {
					t.Errorf("rule %s joins non-internal connectors", r)
				}
			}
		})
	}
}

func TestInternalRulePairsPositiveWithNegative(t *testing.T) {
	m := mustModule(t, "a", grid.Coord{X: 0, Y: 0, Z: 0}, grid.Coord{X: 1, Y: 0, Z: 0})
	rules := m.InternalRules()
	want := RuleExplicit{SourceModule: "a", SourceConnector: 0, TargetModule: "a", TargetConnector: 9}
	if len(rules) != 1 || rules[0] != want {
		t.Errorf("InternalRules() = %v, want [%v]", rules, want)
	}
}

func TestContinuity(t *testing.T) {
	tests := []struct {
		name  string
		cells []grid.Coord
		want  bool
	}{
		{"single", []grid.Coord{{X: 0, Y: 0, Z: 0}}, true},
		{"adjacent", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, true},
		{"gap", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}, false},
		{"diagonal", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}}, false},
		{"L shape", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}}, true},
		{"one stray", []grid.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 5, Y: 5, Z: 5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustModule(t, "m", tt.cells...)
			if m.Continuous() != tt.want {
				t.Errorf("Continuous() = %v, want %v", m.Continuous(), tt.want)
			}
			if m.IsValid() != tt.want {
				t.Errorf("IsValid() = %v, want %v", m.IsValid(), tt.want)
			}
			if explained := m.Explain() != ""; explained == tt.want {
				t.Errorf("Explain() = %q for continuous=%v", m.Explain(), tt.want)
			}
		})
	}
}

func TestConnectorAnchors(t *testing.T) {
	size := v3.Vec{X: 2, Y: 4, Z: 6}
	frame := grid.WorldXY.Moved(v3.Vec{X: 10, Y: 20, Z: 30})
	m, err := NewModule("a", nil, frame, []grid.Coord{{X: 1, Y: 0, Z: 0}}, size)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	// Cell center at (10+2, 20, 30).
	want := []v3.Vec{
		{X: 13, Y: 20, Z: 30},
		{X: 12, Y: 22, Z: 30},
		{X: 12, Y: 20, Z: 33},
		{X: 11, Y: 20, Z: 30},
		{X: 12, Y: 18, Z: 30},
		{X: 12, Y: 20, Z: 27},
	}
	for i, c := range m.Connectors() {
		if !vecNear(c.Anchor, want[i]) {
			t.Errorf("connector %d anchor = %v, want %v", i, c.Anchor, want[i])
		}
	}
	if !vecNear(m.Pivot().Origin, v3.Vec{X: 12, Y: 20, Z: 30}) {
		t.Errorf("pivot origin = %v", m.Pivot().Origin)
	}
	if m.Pivot().XAxis != frame.XAxis || m.Pivot().ZAxis != frame.ZAxis {
		t.Error("pivot should be oriented like the base frame")
	}
}

func TestFaceShapeSize(t *testing.T) {
	m, err := NewModule("a", nil, grid.WorldXY, []grid.Coord{{}}, v3.Vec{X: 2, Y: 3, Z: 5})
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	tests := []struct {
		index int
		w, h  float64
	}{
		{0, 3, 5}, // +x spans y,z
		{1, 5, 2}, // +y spans z,x
		{2, 2, 3}, // +z spans x,y
		{3, 3, 5},
	}
	for _, tt := range tests {
		c, _ := m.ConnectorAt(tt.index)
		if c.Face.Size.X != tt.w || c.Face.Size.Y != tt.h {
			t.Errorf("connector %d face size = %v, want (%g, %g)", tt.index, c.Face.Size, tt.w, tt.h)
		}
		if !vecNear(c.Face.Normal, c.Direction.Vec()) {
			t.Errorf("connector %d normal = %v", tt.index, c.Face.Normal)
		}
	}
}

func TestReservedModules(t *testing.T) {
	for _, build := range []func(grid.Frame, v3.Vec) (*Module, error){EmptyModule, OutModule} {
		m, err := build(grid.WorldXY, unitCell)
		if err != nil {
			t.Fatalf("reserved module: %v", err)
		}
		if !m.IsReserved() {
			t.Errorf("%s: IsReserved() = false", m.Name())
		}
		if m.SubmoduleCount() != 1 || len(m.Geometry()) != 0 {
			t.Errorf("%s: want one submodule and no geometry", m.Name())
		}
		rules, err := m.TypedRules(IndifferentType)
		if err != nil {
			t.Fatalf("TypedRules: %v", err)
		}
		if len(rules) != 6 {
			t.Errorf("%s: %d indifferent rules, want 6", m.Name(), len(rules))
		}
	}
}

func TestModuleAccessorsCopy(t *testing.T) {
	m := mustModule(t, "a", grid.Coord{X: 0, Y: 0, Z: 0}, grid.Coord{X: 1, Y: 0, Z: 0})
	cells := m.Submodules()
	cells[0] = grid.Coord{X: 9, Y: 9, Z: 9}
	if m.Submodules()[0] != (grid.Coord{}) {
		t.Error("Submodules() exposes internal state")
	}
	conns := m.Connectors()
	conns[0].Index = 99
	if c, _ := m.ConnectorAt(0); c.Index != 0 {
		t.Error("Connectors() exposes internal state")
	}
}

func TestConnectorsFacing(t *testing.T) {
	m := mustModule(t, "a", grid.Coord{X: 0, Y: 0, Z: 0}, grid.Coord{X: 1, Y: 0, Z: 0})
	posX := m.ConnectorsFacing(grid.PosX)
	if len(posX) != 1 || posX[0].Index != 6 {
		t.Errorf("ConnectorsFacing(+x) = %v, want only connector 6", posX)
	}
	if got := len(m.ConnectorsFacing(grid.PosY)); got != 2 {
		t.Errorf("ConnectorsFacing(+y) = %d connectors, want 2", got)
	}
}

func TestModuleSet(t *testing.T) {
	a := mustModule(t, "a", grid.Coord{})
	b := mustModule(t, "b", grid.Coord{}, grid.Coord{X: 0, Y: 1, Z: 0})
	set, err := NewModuleSet(a, b)
	if err != nil {
		t.Fatalf("NewModuleSet: %v", err)
	}
	if _, ok := set.Lookup("A"); !ok {
		t.Error("Lookup should be case-insensitive")
	}
	if _, ok := set.Connector("b", 11); !ok {
		t.Error("Connector(b, 11) should resolve")
	}
	if _, ok := set.Connector("b", 12); ok {
		t.Error("Connector(b, 12) should not resolve")
	}
	if _, ok := set.Connector("c", 0); ok {
		t.Error("Connector(c, 0) should not resolve")
	}
	want := []string{"a_0", "b_0", "b_1"}
	got := set.SubmoduleNames()
	if len(got) != len(want) {
		t.Fatalf("SubmoduleNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SubmoduleNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := NewModuleSet(a, mustModule(t, "A", grid.Coord{})); !errors.Is(err, ErrDuplicateModule) {
		t.Errorf("duplicate names: err = %v, want ErrDuplicateModule", err)
	}
}
