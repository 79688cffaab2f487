// Package alloc_test provides runnable examples for the public API.
//
// Contents:
//  1. ExampleSolve       three resources, two zones, one seat each
//  2. ExampleBruteForce  the exhaustive reference on the same instance
//  3. ExampleVerify      rejecting an allocation that misses a zone minimum
package alloc_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/model"
)

func ExampleSolve() {
	cost := [][]float64{
		{1, 4}, // R0
		{2, 3}, // R1
		{5, 1}, // R2
	}
	capacity := []int{1, 1} // Z0 and Z1 each need at least one resource

	sol, err := alloc.Solve(context.Background(), cost, capacity, alloc.DefaultOptions())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, p := range sol.Assignment {
		fmt.Printf("R%d -> Z%d\n", p.Resource, p.Zone)
	}
	fmt.Printf("total=%.0f status=%s\n", sol.TotalCost, sol.Status)
	// Output:
	// R0 -> Z0
	// R1 -> Z0
	// R2 -> Z1
	// total=4 status=optimal
}

func ExampleBruteForce() {
	m, _ := model.New([][]float64{{1, 4}, {2, 3}, {5, 1}}, []int{1, 1})
	sol, err := alloc.BruteForce(m)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(sol.Zones(), sol.TotalCost)
	// Output:
	// [0 0 1] 4
}

func ExampleVerify() {
	m, _ := model.New([][]float64{{1, 4}, {2, 3}, {5, 1}}, []int{1, 1})
	sol := alloc.Solution{
		Assignment: []alloc.Pair{{Resource: 0, Zone: 0}, {Resource: 1, Zone: 0}, {Resource: 2, Zone: 0}},
		TotalCost:  8,
	}
	err := alloc.Verify(m, sol)
	fmt.Println(errors.Is(err, alloc.ErrVerificationFailed))
	fmt.Println(err)
	// Output:
	// true
	// alloc: verification failed: zone 1 has 0 resources, needs 1
}
