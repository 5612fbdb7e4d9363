// Command report runs the energy model offline over a simulated span and
// prints the resulting report as JSON. Useful for inspecting the synthetic
// series without a running server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/model"
)

func main() {
	period := flag.String("period", "24h", "report period: 24h, 7d or 30d")
	hours := flag.Int("hours", 24, "simulated span in hours")
	stepMin := flag.Int("step", 30, "simulated minutes between snapshots")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	p := model.Period(*period)
	if !p.Valid() {
		fmt.Fprintf(os.Stderr, "unknown period %q\n", *period)
		os.Exit(1)
	}

	current := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	m := energy.NewModel(energy.Config{
		Now:  func() time.Time { return current },
		Rand: rand.New(rand.NewSource(*seed)),
	})

	step := time.Duration(*stepMin) * time.Minute
	end := current.Add(time.Duration(*hours) * time.Hour)
	for !current.After(end) {
		m.Generate()
		current = current.Add(step)
	}

	report, _ := m.ReportData(p)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
