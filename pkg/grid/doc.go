// Package grid defines the integer voxel lattice used by cellwfc: axes,
// the six face directions, grid coordinates, and the base frame that maps
// lattice points into continuous world space.
package grid
