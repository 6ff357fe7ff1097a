package unionfind

import "fmt"

// DisjointSet is a union-find forest over indices 0..Len()-1.
type DisjointSet struct {
	parent []int
}

// New creates a DisjointSet of n singleton components.
// A negative n is treated as zero.
func New(n int) *DisjointSet {
	if n < 0 {
		n = 0
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &DisjointSet{parent: parent}
}

// Len returns the number of elements in the forest.
func (d *DisjointSet) Len() int {
	return len(d.parent)
}

// Find returns the representative of x's component.
// It panics if x is outside [0, Len()), mirroring an out-of-range slice access.
func (d *DisjointSet) Find(x int) int {
	d.check(x)

	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}

	// Second pass: point every node on the path directly at the root.
	for x != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}
	return root
}

// Union merges the components of x and y. It returns true if they were
// different components (and are now one), false if they were already joined.
// The root of x's component survives as the representative.
func (d *DisjointSet) Union(x, y int) bool {
	rootX := d.Find(x)
	rootY := d.Find(y)
	if rootX == rootY {
		return false
	}
	d.parent[rootY] = rootX
	return true
}

// Connected reports whether x and y are in the same component.
func (d *DisjointSet) Connected(x, y int) bool {
	return d.Find(x) == d.Find(y)
}

// Components returns the number of disjoint components.
func (d *DisjointSet) Components() int {
	n := 0
	for i, p := range d.parent {
		if i == p {
			n++
		}
	}
	return n
}

func (d *DisjointSet) check(x int) {
	if x < 0 || x >= len(d.parent) {
		panic(fmt.Sprintf("unionfind: index %d out of range [0, %d)", x, len(d.parent)))
	}
}
