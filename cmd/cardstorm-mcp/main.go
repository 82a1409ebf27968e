package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	cardstormmcp "github.com/peterkuimelis/cardstorm/internal/mcp"
	"github.com/peterkuimelis/cardstorm/internal/sim"
)

func main() {
	cardsFile := flag.String("cards", "data/cards.yaml", "path to cards YAML file")
	encountersFile := flag.String("encounters", "data/encounters.yaml", "path to encounters YAML file")
	flag.Parse()

	db, err := sim.LoadDatabase(*cardsFile, *encountersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cardstormmcp.SetDatabase(db)

	s := server.NewMCPServer("cardstorm", "1.0.0")
	cardstormmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
