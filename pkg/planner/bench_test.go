package planner

import (
	"testing"

	"github.com/vanderheijden86/contribsnake/pkg/testutil"
)

func BenchmarkPlan_FullYear(b *testing.B) {
	grid := testutil.NewDefault().Calendar(3, 4)
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		Plan(grid, WithSeed(uint64(i)))
	}
}

func BenchmarkPlan_Sparse(b *testing.B) {
	grid := testutil.New(testutil.GeneratorConfig{Seed: 5, Density: 0.05}).Calendar(0, 7)
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		Plan(grid, WithSeed(uint64(i)))
	}
}
