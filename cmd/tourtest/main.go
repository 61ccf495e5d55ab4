// Command tourtest exercises the viewing-order planner on random or grid
// layouts and reports path lengths before and after refinement.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"picpyles/internal/tour"
)

func main() {
	count := flag.Int("n", 200, "Number of tile positions")
	layout := flag.String("layout", "random", "Point layout: random, grid, or clusters")
	spread := flag.Float64("spread", 40, "Extent of the layout in world units")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if *count < 1 {
		fmt.Println("Usage: tourtest [-n 200] [-layout random|grid|clusters] [-spread 40] [-seed 1]")
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	positions := generate(rng, *layout, *count, *spread)
	fmt.Printf("Layout: %s, %d points, spread %.0f, seed %d\n", *layout, *count, *spread, *seed)

	naive := make([]int, len(positions))
	for i := range naive {
		naive[i] = i
	}
	fmt.Printf("Index order length:  %10.2f\n", tour.Length(positions, naive))

	start := time.Now()
	order := tour.Build(positions)
	elapsed := time.Since(start)

	fmt.Printf("Planned tour length: %10.2f\n", tour.Length(positions, order))
	fmt.Printf("Planning time:       %12v\n", elapsed)

	if len(order) <= 20 {
		fmt.Printf("Order: %v\n", order)
	}
}

func generate(rng *rand.Rand, layout string, n int, spread float64) []r3.Vec {
	positions := make([]r3.Vec, 0, n)
	switch layout {
	case "grid":
		side := 1
		for side*side < n {
			side++
		}
		pitch := spread / float64(side)
		for i := 0; i < n; i++ {
			positions = append(positions, r3.Vec{
				X: float64(i%side) * pitch,
				Y: float64(i/side) * pitch,
			})
		}
	case "clusters":
		const perCluster = 25
		var cx, cy float64
		for i := 0; i < n; i++ {
			if i%perCluster == 0 {
				cx = rng.Float64() * spread
				cy = rng.Float64() * spread
			}
			positions = append(positions, r3.Vec{
				X: cx + rng.NormFloat64(),
				Y: cy + rng.NormFloat64(),
			})
		}
	default:
		for i := 0; i < n; i++ {
			positions = append(positions, r3.Vec{
				X: rng.Float64() * spread,
				Y: rng.Float64() * spread,
			})
		}
	}
	return positions
}
