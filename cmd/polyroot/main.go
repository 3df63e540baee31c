// Command polyroot ищет вещественные корни многочлена методом Ньютона
// (и его разностным вариантом), строит график и прогоняет сетки параметров.
//
// Примеры:
//
//	polyroot find -x 3 -d 1e-6 -i 50 -- 1 0 -4
//	polyroot find --coeffs 8,3,6,2,0,12 -v
//	polyroot roots -- 1 -3 1 -3
//	polyroot plot --low -5 --high 5 --out graph.png -- 1 0 -4
//	polyroot sweep --csv results.csv
//	polyroot serve --addr :8080
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
