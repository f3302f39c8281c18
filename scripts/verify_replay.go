// Verify a saved replay file: rebuild the match from its recorded
// actions and check the final checksum.
//
// Usage: go run scripts/verify_replay.go <replay-file> [card-file]
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ascentcg/ascent-server-go/internal/game"
	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <replay-file> [card-file]", os.Args[0])
	}
	replayPath := os.Args[1]
	cardPath := "config/cards.yaml"
	if len(os.Args) > 2 {
		cardPath = os.Args[2]
	}

	cat, err := catalog.LoadFile(cardPath)
	if err != nil {
		log.Fatalf("Failed to load card catalog: %v", err)
	}

	record, err := game.LoadReplayFile(replayPath)
	if err != nil {
		log.Fatalf("Failed to load replay: %v", err)
	}

	fmt.Printf("Match:    %s\n", record.MatchID)
	fmt.Printf("Players:  %s vs %s\n", record.Players[0].ID, record.Players[1].ID)
	fmt.Printf("Actions:  %d\n", len(record.Actions))

	match, err := record.Rebuild(cat, nil)
	if err != nil {
		log.Fatalf("Replay verification FAILED: %v", err)
	}

	fmt.Printf("Checksum: %s\n", record.FinalChecksum)
	if outcome, done := match.Outcome(); done {
		fmt.Printf("Outcome:  %s\n", outcome)
	} else {
		fmt.Println("Outcome:  match still in progress")
	}
	fmt.Println("Replay verified OK")
}
