// Command analyze prints quick, human-readable summaries of the live sessions
// on a running server. It fetches /api/sessions and reports per-participant
// score totals, the current leader, and which products are scored most often.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/zaruba-app/zaruba/scoring/service"
)

var serverURL = flag.String("server", "http://localhost:8080", "Base URL of the scoring server")

// sessionsResponse mirrors the /api/sessions payload.
type sessionsResponse struct {
	Count    int                   `json:"count"`
	Sessions []service.SessionInfo `json:"sessions"`
}

// fetchSessions retrieves all live sessions from the server.
func fetchSessions(baseURL string) ([]service.SessionInfo, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(baseURL + "/api/sessions")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, baseURL)
	}

	var body sessionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return body.Sessions, nil
}

// participantTotal sums one participant's scores across all products.
func participantTotal(scores map[string]int) int {
	total := 0
	for _, score := range scores {
		total += score
	}
	return total
}

// sessionLeader returns the participant with the higher total, or "" on a
// tie.
func sessionLeader(info service.SessionInfo) string {
	totalA := participantTotal(info.Scores[info.ParticipantA])
	totalB := participantTotal(info.Scores[info.ParticipantB])

	switch {
	case totalA > totalB:
		return info.ParticipantA
	case totalB > totalA:
		return info.ParticipantB
	default:
		return ""
	}
}

// topProducts returns up to n products with the highest combined score across
// both participants, in descending order.
func topProducts(info service.SessionInfo, n int) []string {
	combined := make(map[string]int)
	for _, scores := range info.Scores {
		for product, score := range scores {
			combined[product] += score
		}
	}

	products := make([]string, 0, len(combined))
	for product, score := range combined {
		if score > 0 {
			products = append(products, product)
		}
	}

	sort.Slice(products, func(i, j int) bool {
		if combined[products[i]] != combined[products[j]] {
			return combined[products[i]] > combined[products[j]]
		}
		return products[i] < products[j]
	})

	if len(products) > n {
		products = products[:n]
	}
	return products
}

// analyzeSession prints a report for one session.
func analyzeSession(info service.SessionInfo) {
	fmt.Printf("\n=== %s ===\n", info.SessionKey)
	fmt.Printf("Participants: %s vs %s\n", info.ParticipantA, info.ParticipantB)
	fmt.Printf("Created: %s (age %s)\n", info.CreatedAt.Format(time.RFC3339), time.Since(info.CreatedAt).Round(time.Minute))

	for _, name := range []string{info.ParticipantA, info.ParticipantB} {
		fmt.Printf("  %s: total %d\n", name, participantTotal(info.Scores[name]))
	}

	if leader := sessionLeader(info); leader != "" {
		fmt.Printf("Leader: %s\n", leader)
	} else {
		fmt.Println("Leader: tied")
	}

	if top := topProducts(info, 3); len(top) > 0 {
		fmt.Printf("Top products: ")
		for i, product := range top {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(product)
		}
		fmt.Println()
	}
}

func main() {
	flag.Parse()

	sessions, err := fetchSessions(*serverURL)
	if err != nil {
		fmt.Printf("Error fetching sessions: %v\n", err)
		os.Exit(1)
	}

	if len(sessions) == 0 {
		fmt.Println("No live sessions")
		return
	}

	fmt.Printf("Live sessions: %d\n", len(sessions))
	for _, info := range sessions {
		analyzeSession(info)
	}
}
