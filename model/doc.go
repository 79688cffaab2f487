// Package model holds the immutable input of a capacitated assignment
// problem: an I×J cost matrix (resources × zones) and a length-J vector of
// minimum zone capacities.
//
// A Model is validated once, at construction:
//
//   - every cost row has exactly J = len(capacity) entries, J ≥ 1;
//   - costs are finite and non-negative;
//   - capacities are non-negative and sum(capacity) ≤ I.
//
// After construction the Model never changes, so it can be shared freely by
// the relaxation solver and any number of branch-and-bound workers.
//
// Variables of the underlying 0/1 program are addressed in row-major order:
// x[i][j] lives at flat index i*J + j (see Index and Cell).
package model
