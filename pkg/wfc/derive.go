package wfc

import (
	"fmt"

	"github.com/chazu/cellwfc/pkg/grid"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// indexSubmodules maps each coordinate to its position in the list and
// rejects duplicates.
func indexSubmodules(submodules []grid.Coord) (map[grid.Coord]int, error) {
	index := make(map[grid.Coord]int, len(submodules))
	for k, c := range submodules {
		if prev, ok := index[c]; ok {
			return nil, fmt.Errorf("%w: %v at positions %d and %d", ErrDuplicateSubmodule, c, prev, k)
		}
		index[c] = k
	}
	return index, nil
}

// deriveConnectors computes six connectors per submodule, ordered
// submodule*6 + faceIndex.
func deriveConnectors(m *Module, index map[grid.Coord]int) []Connector {
	connectors := make([]Connector, 0, len(m.submodules)*grid.FaceCount)
	for k, c := range m.submodules {
		center := c.Vec().Mul(m.cellSize)
		for _, d := range grid.Directions() {
			valence := External
			if _, ok := index[c.Neighbor(d)]; ok {
				valence = Internal
			}
			half := d.Vec().Mul(m.cellSize).MulScalar(0.5)
			connectors = append(connectors, Connector{
				ModuleName:    m.name,
				SubmoduleName: m.SubmoduleName(k),
				Index:         ConnectorIndex(k, d),
				Direction:     d,
				Valence:       valence,
				Anchor:        m.frame.ToWorld(center.Add(half)),
				Face:          faceShape(m, d),
			})
		}
	}
	return connectors
}

func faceShape(m *Module, d grid.Direction) FaceShape {
	u, v := faceAxes(d)
	return FaceShape{
		Normal: m.frame.ToWorldDirection(d.Vec()),
		U:      m.frame.ToWorldDirection(axisVec(u)),
		V:      m.frame.ToWorldDirection(axisVec(v)),
		Size:   v2.Vec{X: component(m.cellSize, u), Y: component(m.cellSize, v)},
	}
}

// deriveInternalRules emits one rule per pair of face-adjacent submodules.
// Only the positive directions are scanned so each adjacency is found once.
func deriveInternalRules(m *Module, index map[grid.Coord]int) []RuleExplicit {
	var rules []RuleExplicit
	for k, c := range m.submodules {
		for _, d := range []grid.Direction{grid.PosX, grid.PosY, grid.PosZ} {
			other, ok := index[c.Neighbor(d)]
			if !ok {
				continue
			}
			rules = append(rules, RuleExplicit{
				SourceModule:    m.name,
				SourceConnector: ConnectorIndex(k, d),
				TargetModule:    m.name,
				TargetConnector: ConnectorIndex(other, d.Flipped()),
			})
		}
	}
	return rules
}

// isContinuous reports whether every submodule has a face-adjacent sibling.
func isContinuous(submodules []grid.Coord, index map[grid.Coord]int) bool {
	if len(submodules) < 2 {
		return true
	}
	for _, c := range submodules {
		touching := false
		for _, d := range grid.Directions() {
			if _, ok := index[c.Neighbor(d)]; ok {
				touching = true
				break
			}
		}
		if !touching {
			return false
		}
	}
	return true
}
