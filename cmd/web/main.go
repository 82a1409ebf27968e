package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/cardstorm/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	cardsFile := flag.String("cards", "data/cards.yaml", "path to cards YAML file")
	encountersFile := flag.String("encounters", "data/encounters.yaml", "path to encounters YAML file")
	flag.Parse()

	srv, err := web.NewServer(*cardsFile, *encountersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("cardstorm replay server listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
