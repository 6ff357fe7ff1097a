// Package unionfind provides an array-backed disjoint-set forest over the
// dense indices 0..n-1.
//
// The structure backs the edge acceptance decision in Kruskal's algorithm:
// [DisjointSet.Union] reports whether two indices were in different
// components before the call, which is exactly the "does this edge close a
// cycle?" question.
//
// # Usage
//
//	ds := unionfind.New(4)
//	ds.Union(0, 1)          // true: merged
//	ds.Union(1, 0)          // false: already connected
//	ds.Connected(0, 1)      // true
//	ds.Components()         // 3
//
// # Complexity
//
// Find uses iterative path compression (no recursion, so arbitrarily deep
// chains are safe). Union links the root of y under the root of x without
// rank balancing; for the interactive sizes this package serves, path
// compression alone keeps operations near constant time.
//
// # Concurrency
//
// A DisjointSet is not safe for concurrent use. Find mutates the forest.
package unionfind
