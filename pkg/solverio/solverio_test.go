package solverio_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/cellwfc/pkg/catalog"
	"github.com/chazu/cellwfc/pkg/grid"
	"github.com/chazu/cellwfc/pkg/slot"
	"github.com/chazu/cellwfc/pkg/solverio"
	"github.com/chazu/cellwfc/pkg/wfc"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitCell = v3.Vec{X: 1, Y: 1, Z: 1}

// compiled returns a catalog of two single-cell modules joined along x.
func compiled(t *testing.T) *catalog.Compiled {
	t.Helper()
	c := catalog.New()
	c.AddModule(catalog.ModuleSpec{Name: "a", Cells: []grid.Coord{{}}})
	c.AddModule(catalog.ModuleSpec{Name: "b", Cells: []grid.Coord{{}}})
	r, err := wfc.NewRuleExplicit("a", 0, "b", 3)
	require.NoError(t, err)
	c.AddRule(r)

	out, err := catalog.Compile(context.Background(), c, catalog.Options{})
	require.NoError(t, err)
	return out
}

func worldSlots(t *testing.T, modules *wfc.ModuleSet) []slot.Slot {
	t.Helper()
	slots, err := slot.Fill(grid.WorldXY, unitCell, grid.Coord{}, grid.Coord{X: 1})
	require.NoError(t, err)
	slots[1] = slots[1].WithAllowsAny(false).WithAllowedModuleNames([]string{"b"})
	slots, err = slot.Expand(slots, modules)
	require.NoError(t, err)
	return slots
}

func TestFromCompiled(t *testing.T) {
	out := compiled(t)
	doc := solverio.FromCompiled(out, unitCell, worldSlots(t, out.Modules))

	assert.Equal(t, solverio.Version, doc.Version)
	assert.Equal(t, [3]float64{1, 1, 1}, doc.CellSize)
	assert.ElementsMatch(t, []string{"a_0", "b_0", "empty_0", "out_0"}, doc.Submodules)
	assert.Equal(t, out.SolverRules, doc.Rules)
	assert.Contains(t, doc.Rules, wfc.SolverRule{Axis: grid.AxisX, Lower: "a_0", Higher: "b_0"})

	require.Len(t, doc.Slots, 2)
	assert.True(t, doc.Slots[0].AllowsAny)
	assert.Len(t, doc.Slots[0].Submodules, 4)
	assert.Equal(t, grid.Coord{X: 1}, doc.Slots[1].At)
	assert.Equal(t, []string{"b"}, doc.Slots[1].Modules)
	assert.Equal(t, []string{"b_0"}, doc.Slots[1].Submodules)
	assert.NoError(t, doc.Validate())
}

func TestFromCompiledNil(t *testing.T) {
	doc := solverio.FromCompiled(nil, unitCell, nil)
	assert.Empty(t, doc.Rules)
	assert.Empty(t, doc.Submodules)
	assert.Empty(t, doc.Slots)
}

func TestEncodeDecodeEachFormat(t *testing.T) {
	out := compiled(t)
	doc := solverio.FromCompiled(out, unitCell, worldSlots(t, out.Modules))

	for _, f := range []solverio.Format{solverio.FormatYAML, solverio.FormatTOML, solverio.FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, solverio.Encode(&buf, doc, f))

			got, err := solverio.Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, doc.Rules, got.Rules)
			assert.Equal(t, doc.Submodules, got.Submodules)
			assert.Equal(t, doc.Slots, got.Slots)
		})
	}
}

func TestYAMLUsesAxisLabels(t *testing.T) {
	doc := solverio.Document{
		Version:    solverio.Version,
		Submodules: []string{"a_0", "b_0"},
		Rules:      []wfc.SolverRule{{Axis: grid.AxisZ, Lower: "a_0", Higher: "b_0"}},
	}
	var buf bytes.Buffer
	require.NoError(t, solverio.Encode(&buf, doc, solverio.FormatYAML))
	assert.Contains(t, buf.String(), "axis: z")
	assert.Contains(t, buf.String(), "lower: a_0")
}

func TestDecodeSolverAnswer(t *testing.T) {
	answer := `
version: 1
cell_size: [2, 2, 2]
submodules: [a_0, b_0]
rules:
  - {axis: x, lower: a_0, higher: b_0}
slots:
  - at: {x: 0, y: 0, z: 0}
    modules: [a]
    submodules: [a_0]
  - at: {x: 1, y: 0, z: 0}
    modules: [b]
    submodules: [b_0]
`
	doc, err := solverio.Decode(strings.NewReader(answer), solverio.FormatYAML)
	require.NoError(t, err)

	slots, err := doc.ToSlots(grid.WorldXY)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.True(t, s.IsDeterministic())
		assert.Equal(t, 2, s.AllSubmodulesCount())
		assert.Equal(t, slot.CategoryDeterministic, s.ColorCategory())
	}
	assert.Equal(t, v3.Vec{X: 2, Y: 0, Z: 0}, slots[1].Center())
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"version", "version: 2\n", solverio.ErrVersion},
		{"rule submodule", "version: 1\nsubmodules: [a_0]\nrules:\n  - {axis: x, lower: a_0, higher: c_0}\n", solverio.ErrUnknownSubmodule},
		{"slot submodule", "version: 1\nsubmodules: [a_0]\nslots:\n  - at: {x: 0, y: 0, z: 0}\n    submodules: [z_0]\n", solverio.ErrUnknownSubmodule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := solverio.Decode(strings.NewReader(tt.src), solverio.FormatYAML)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := solverio.Decode(strings.NewReader("version: 1\nrules:\n  - {axis: w, lower: a, higher: b}\n"), solverio.FormatYAML)
	assert.Error(t, err)
}

func TestToSlotsBadCellSize(t *testing.T) {
	doc := solverio.Document{
		Version: solverio.Version,
		Slots:   []solverio.SlotRecord{{AllowsAny: true}},
	}
	_, err := doc.ToSlots(grid.WorldXY)
	assert.ErrorIs(t, err, grid.ErrCellSize)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    solverio.Format
		wantErr bool
	}{
		{"yaml", solverio.FormatYAML, false},
		{"YML", solverio.FormatYAML, false},
		{"toml", solverio.FormatTOML, false},
		{" json ", solverio.FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := solverio.ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, solverio.ErrFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.Equal(t, solverio.FormatTOML, solverio.FormatFromPath("out/solver.toml", solverio.FormatYAML))
	assert.Equal(t, solverio.FormatJSON, solverio.FormatFromPath("solver.txt", solverio.FormatJSON))
	assert.ErrorIs(t, solverio.Encode(&bytes.Buffer{}, solverio.Document{}, "xml"), solverio.ErrFormat)
}

func TestWriteReadFile(t *testing.T) {
	out := compiled(t)
	doc := solverio.FromCompiled(out, unitCell, nil)
	path := filepath.Join(t.TempDir(), "solver.json")

	require.NoError(t, solverio.WriteFile(path, doc, solverio.FormatJSON))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{"))

	got, err := solverio.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Rules, got.Rules)
}
