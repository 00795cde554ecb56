package sdfx

import (
	"math"
	"testing"
)

func TestBox(t *testing.T) {
	k := NewWithResolution(40)
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}

	// The surface lands within one marching cubes cell of the box faces.
	size := mesh.Size()
	want := [3]float32{100, 50, 25}
	for i := range 3 {
		if math.Abs(float64(size[i]-want[i])) > 100.0/40 {
			t.Errorf("mesh size[%d] = %f, want ~%f", i, size[i], want[i])
		}
	}
}

func TestUnion(t *testing.T) {
	k := NewWithResolution(40)
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)

	min, max := u.BoundingBox()
	const tol = 0.01
	if math.Abs(min[0]+25) > tol || math.Abs(max[0]-55) > tol {
		t.Errorf("union x extent = [%f, %f], want [-25, 55]", min[0], max[0])
	}

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Centered at (100,200,300), so bounds are (95,195,295) to (105,205,305).
	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, -12.5}
	expectMax := [3]float64{50, 25, 12.5}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestResolution(t *testing.T) {
	if k := NewWithResolution(0); k.meshCells != DefaultMeshCells {
		t.Errorf("meshCells = %d, want %d", k.meshCells, DefaultMeshCells)
	}
	if k := NewWithResolution(16); k.meshCells != 16 {
		t.Errorf("meshCells = %d, want 16", k.meshCells)
	}
}
