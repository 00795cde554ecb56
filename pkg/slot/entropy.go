package slot

import "fmt"

// Entropy returns how many submodules the slot may still hold: 1 when it
// is deterministic, 0 on contradiction. A slot that allows any module
// counts the whole universe.
func (s Slot) Entropy() int {
	switch {
	case s.allowsAny:
		return s.allSubmodulesCount
	case s.AllowsNothing():
		return 0
	}
	return len(s.allowedSubmoduleNames)
}

// EntropyRatio returns Entropy relative to the universe, in [0, 1].
func (s Slot) EntropyRatio() float64 {
	if s.allowsAny {
		return 1
	}
	if s.allSubmodulesCount == 0 {
		return 0
	}
	r := float64(s.Entropy()) / float64(s.allSubmodulesCount)
	if r > 1 {
		return 1
	}
	return r
}

// Category classifies a slot for display.
type Category int

const (
	CategoryUndecided Category = iota
	CategoryAny
	CategoryContradiction
	CategoryDeterministic
)

func (c Category) String() string {
	switch c {
	case CategoryUndecided:
		return "undecided"
	case CategoryAny:
		return "any"
	case CategoryContradiction:
		return "contradiction"
	case CategoryDeterministic:
		return "deterministic"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ColorCategory is a pure function of the allows-any flag, the
// contradiction flag, the number of allowed submodules and the universe
// size. A slot whose submodules have not been expanded yet is undecided.
func (s Slot) ColorCategory() Category {
	return Categorize(s.allowsAny, s.AllowsNothing(), len(s.allowedSubmoduleNames), s.allSubmodulesCount)
}

// Categorize implements ColorCategory for raw values.
func Categorize(allowsAny, allowsNothing bool, allowed, all int) Category {
	switch {
	case allowsAny:
		return CategoryAny
	case allowsNothing:
		return CategoryContradiction
	case allowed == 1:
		return CategoryDeterministic
	case all > 0 && allowed >= all:
		return CategoryAny
	}
	return CategoryUndecided
}
