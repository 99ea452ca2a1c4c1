// Command seed generates a synthetic activity CSV for load-testing ingestion
// and classification. Users follow a simple engagement model: each user gets a
// signup day and a daily activity probability that decays over time, which
// produces realistic mixes of streaks, at-risk gaps, churn and resurrection.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
)

var (
	out       = flag.String("out", "activity.csv", "Output CSV path")
	users     = flag.Int("users", 1000, "Number of users to simulate")
	startFlag = flag.String("start", "2024-01-01", "First day of the simulation (YYYY-MM-DD)")
	days      = flag.Int("days", 90, "Number of days to simulate")
	seed      = flag.Int64("seed", 42, "Random seed")
)

func main() {
	flag.Parse()

	start, err := domain.ParseDay(*startFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -start: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "occurred_at"}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write header: %v\n", err)
		os.Exit(1)
	}

	end := domain.AddDays(start, *days-1)
	var rows int
	for u := 0; u < *users; u++ {
		userID := fmt.Sprintf("user-%05d", u)
		signup := domain.AddDays(start, rng.Intn(*days))
		// Base engagement between 0.2 and 0.9, decaying with account age
		base := 0.2 + 0.7*rng.Float64()
		resurrectionChance := 0.02 * rng.Float64()

		engaged := true
		ageDays := 0
		for day := signup; !day.After(end); day = domain.NextDay(day) {
			p := base / (1.0 + float64(ageDays)/60.0)
			if !engaged {
				p = resurrectionChance
			}

			if rng.Float64() < p {
				engaged = true
				ts := day.Add(time.Duration(rng.Intn(24)) * time.Hour)
				if err := w.Write([]string{userID, ts.Format(time.RFC3339)}); err != nil {
					fmt.Fprintf(os.Stderr, "failed to write row: %v\n", err)
					os.Exit(1)
				}
				rows++
			} else if rng.Float64() < 0.05 {
				// A small chance each inactive day of going fully dormant
				engaged = false
			}
			ageDays++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush csv: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d events for %d users to %s (%s..%s)\n",
		rows, *users, *out, domain.FormatDay(start), domain.FormatDay(end))
}
