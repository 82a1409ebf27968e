package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	gamelog "github.com/peterkuimelis/cardstorm/internal/log"
	"github.com/peterkuimelis/cardstorm/internal/sim"
)

func main() {
	cardsFile := flag.String("cards", "data/cards.yaml", "path to cards YAML file")
	encountersFile := flag.String("encounters", "data/encounters.yaml", "path to encounters YAML file")
	p1 := flag.String("p1", "", "monster preset for player 1")
	p2 := flag.String("p2", "", "monster preset for player 2")
	configFile := flag.String("config", "", "YAML file with two side configs (overrides -p1/-p2)")
	maxTicks := flag.Int("max-ticks", 0, "stop after this many ticks (0 = run until the fight resolves)")
	quiet := flag.Bool("quiet", false, "suppress the per-event log, print only the summary")
	flag.Parse()

	db, err := sim.LoadDatabase(*cardsFile, *encountersFile)
	if err != nil {
		fatal(err)
	}

	var sides [2]sim.SideConfig
	switch {
	case *configFile != "":
		data, err := os.ReadFile(*configFile)
		if err != nil {
			fatal(err)
		}
		if err := yaml.Unmarshal(data, &sides); err != nil {
			fatal(fmt.Errorf("parsing %s: %w", *configFile, err))
		}
	case *p1 != "" && *p2 != "":
		sides[0].Monster = *p1
		sides[1].Monster = *p2
	default:
		fmt.Fprintln(os.Stderr, "Usage: cardstorm-cli -p1 MONSTER -p2 MONSTER, or -config FILE")
		flag.PrintDefaults()
		os.Exit(1)
	}

	gs, err := sim.NewInitialState(db, sides)
	if err != nil {
		fatal(err)
	}

	var logger gamelog.EventLogger
	if *quiet {
		logger = gamelog.NewMemoryLogger()
	} else {
		logger = gamelog.NewTextLogger(os.Stdout)
	}

	ticks := *maxTicks
	if ticks <= 0 {
		ticks = sim.Unbounded
	}

	runner := &sim.Runner{Logger: logger}
	states, err := runner.Run(gs, ticks)
	if err != nil {
		fatal(err)
	}

	final := states[len(states)-1]
	fmt.Println()
	fmt.Printf("Result: %s after %.1fs\n", sim.Result(final), float64(final.Tick)/1000)
	for i, p := range final.Players {
		fmt.Printf("  P%d: %g/%g health", i+1, p.Health, p.HealthMax)
		if p.Shield > 0 {
			fmt.Printf(", %g shield", p.Shield)
		}
		fmt.Println()
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
