package breach_test

import (
	"fmt"

	"github.com/katalvlaran/hydrocarve/breach"
	"github.com/katalvlaran/hydrocarve/raster"
)

// ExampleBreach drains a pit through the dam that separates it from the border.
func ExampleBreach() {
	dem, _ := raster.FromRows([][]float64{
		{9, 9, 9, 9, 9},
		{9, 2, 6, 3, 0},
		{9, 9, 9, 9, 9},
	})
	res, err := breach.Breach(dem, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("valley row:", dem.Data[5:10])
	fmt.Println("pits:", res.Pits, "lowered:", res.Lowered)
	// Output:
	// valley row: [9 2 2 2 0]
	// pits: 1 lowered: 2
}
