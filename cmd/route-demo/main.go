package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"routebee/internal/logging"
	"routebee/internal/modules/itinerary"
	"routebee/internal/service"
)

func main() {
	from := flag.String("from", "Flushing", "origin place name")
	to := flag.String("to", "Times Square", "destination place name")
	priority := flag.String("priority", "balanced", "speed | cost | comfort | balanced")
	noise := flag.String("noise", "moderate", "noise sensitivity: low | moderate | high")
	safety := flag.String("safety", "moderate", "safety sensitivity: low | moderate | high")
	bags := flag.Int("bags", 0, "number of bags")
	wheelchair := flag.Bool("wheelchair", false, "require wheelchair-accessible routes")
	seed := flag.Uint64("seed", 1, "path noise seed (0 = random)")
	verbose := flag.Bool("v", false, "print segments")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := logging.New(logging.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	planner, err := service.NewDefaultPlanner(service.Options{Seed: *seed, Log: logger})
	if err != nil {
		log.Fatalf("planner init: %v", err)
	}

	plan, err := planner.Plan(context.Background(), service.Request{
		From: *from,
		To:   *to,
		Preference: itinerary.Preference{
			Priority:   itinerary.Priority(*priority),
			Noise:      itinerary.Sensitivity(*noise),
			Safety:     itinerary.Sensitivity(*safety),
			Bags:       *bags,
			Wheelchair: *wheelchair,
		},
	})
	if err != nil {
		log.Fatalf("plan: %v", err)
	}

	fmt.Printf("%s -> %s: %.2f mi (traffic %.2f, topology %.2f)\n",
		plan.From.Name, plan.To.Name, plan.Distance, plan.Traffic.Average, plan.Topology.Average)
	if plan.Degraded {
		fmt.Println("warning: live transit data unavailable, using defaults")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tMIN\tCOST\tCOMFORT\tXFER\tCO2(g)\tSCORE\tETA")
	for _, r := range plan.Routes {
		fmt.Fprintf(w, "%d\t%s\t%d\t$%.2f\t%s\t%d\t%d\t%d\t%s\n",
			r.Rank, r.Name, r.Duration, r.Cost, r.Comfort, r.NumTransfers, r.CO2, r.Score, r.ETA)
		if *verbose {
			for _, s := range r.Segments {
				fmt.Fprintf(w, "\t  %s\t%.0f\t$%.2f\t%s\t\t\t\t\n", s.Mode, s.AdjustedDuration, s.Cost, strings.TrimSpace(s.Label))
			}
		}
	}
	_ = w.Flush()
}
