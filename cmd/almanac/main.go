// Command almanac is a diagnostic CLI for inspecting loaded SPK/BPC kernels:
// given one or more kernel files, a target id, a center id, and an epoch, it
// prints the target's Cartesian state relative to the center at that epoch.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/navkernel/almanac/almanac"
	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
)

func main() {
	targetID := flag.Int("target", 399, "target body NAIF id")
	centerID := flag.Int("center", 0, "center body NAIF id")
	epochSec := flag.Float64("epoch", 0, "epoch, in TDB seconds past J2000")
	flag.Parse()

	kernelPaths := flag.Args()
	if len(kernelPaths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: almanac -target=<id> -center=<id> -epoch=<tdb_sec> kernel.bsp [kernel2.bpc ...]")
		os.Exit(1)
	}

	var a almanac.Almanac
	for _, path := range kernelPaths {
		var err error
		a, err = a.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	target := frame.New(int32(*targetID), 1)
	center := frame.New(int32(*centerID), 1)
	t := epoch.FromTDBSeconds(*epochSec)

	st, err := a.Translate(target, center, t, almanac.None)
	if err != nil {
		fmt.Fprintf(os.Stderr, "translating %s relative to %s: %v\n",
			strconv.Itoa(*targetID), strconv.Itoa(*centerID), err)
		os.Exit(1)
	}

	fmt.Printf("position (km):          [%16.6f, %16.6f, %16.6f]\n",
		st.PositionKm[0], st.PositionKm[1], st.PositionKm[2])
	fmt.Printf("velocity (km/s):        [%16.6f, %16.6f, %16.6f]\n",
		st.VelocityKmS[0], st.VelocityKmS[1], st.VelocityKmS[2])
	fmt.Printf("range (km):             %16.6f\n", st.RmagKm())
	fmt.Printf("speed (km/s):           %16.6f\n", st.VmagKmS())
}
