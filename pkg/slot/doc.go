// Package slot models one cell of the world grid as an immutable candidate
// set. A solver narrows slots by replacing them with evolved copies, so a
// Slot value can be kept, compared, and shared across search branches.
package slot
