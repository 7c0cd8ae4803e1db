// Command sourcesim runs a fake health-data bridge for local development.
// It generates 40 days of interval samples and serves them with the
// anchored query protocol the API's sync coordinator speaks.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type wireSample struct {
	ID         string   `json:"id,omitempty"`
	StartAt    string   `json:"start_at"`
	EndAt      string   `json:"end_at"`
	Kind       string   `json:"kind"`
	Bundle     string   `json:"bundle,omitempty"`
	Inferred   bool     `json:"inferred,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type store struct {
	mu      sync.Mutex
	samples []wireSample
}

func (s *store) add(samples ...wireSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, samples...)
}

// since returns samples appended after the cursor position plus the new
// cursor. The cursor is just a decimal offset; the API treats it as an
// opaque string, which is the point of the exercise.
func (s *store) since(cursor string) ([]wireSample, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := 0
	if n, err := strconv.Atoi(cursor); err == nil && n >= 0 && n <= len(s.samples) {
		from = n
	}
	out := make([]wireSample, len(s.samples)-from)
	copy(out, s.samples[from:])
	return out, strconv.Itoa(len(s.samples))
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	st := &store{}
	seedSamples(st, rand.New(rand.NewSource(1)))

	r := chi.NewRouter()

	r.Get("/v1/authorization", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"authorized": true})
	})

	r.Get("/v1/samples", func(w http.ResponseWriter, r *http.Request) {
		samples, next := st.since(r.URL.Query().Get("cursor"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"samples":     samples,
			"next_cursor": next,
		})
	})

	r.Post("/v1/samples", func(w http.ResponseWriter, r *http.Request) {
		var sample wireSample
		if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if sample.ID == "" {
			sample.ID = uuid.NewString()
		}
		st.add(sample)
		w.WriteHeader(http.StatusCreated)
	})

	log.Printf("sourcesim listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("sourcesim failed: %v", err)
	}
}

const seededDays = 40

// seedSamples fabricates plausible nights: an in-bed envelope, asleep
// stages inside it, and the occasional mid-night awakening.
func seedSamples(st *store, rng *rand.Rand) {
	now := time.Now().UTC()
	for i := seededDays; i > 0; i-- {
		date := now.AddDate(0, 0, -i)
		bedtime := time.Date(date.Year(), date.Month(), date.Day(), 22+rng.Intn(2), rng.Intn(60), 0, 0, time.UTC)
		wake := bedtime.Add(time.Duration(6+rng.Intn(3)) * time.Hour).Add(time.Duration(rng.Intn(60)) * time.Minute)

		st.add(wireSample{
			ID:      uuid.NewString(),
			StartAt: bedtime.Format(time.RFC3339),
			EndAt:   wake.Format(time.RFC3339),
			Kind:    "IN_BED",
			Bundle:  "dev.sourcesim",
		})

		// Sleep onset a bit after getting into bed
		cursor := bedtime.Add(time.Duration(5+rng.Intn(25)) * time.Minute)
		stages := []string{"ASLEEP_CORE", "ASLEEP_DEEP", "ASLEEP_REM"}
		for cursor.Before(wake.Add(-30 * time.Minute)) {
			segEnd := cursor.Add(time.Duration(40+rng.Intn(80)) * time.Minute)
			if segEnd.After(wake) {
				segEnd = wake
			}
			st.add(wireSample{
				ID:      uuid.NewString(),
				StartAt: cursor.Format(time.RFC3339),
				EndAt:   segEnd.Format(time.RFC3339),
				Kind:    stages[rng.Intn(len(stages))],
				Bundle:  "dev.sourcesim",
			})
			cursor = segEnd

			// Occasional brief awakening between stages
			if rng.Float32() < 0.2 && cursor.Before(wake.Add(-time.Hour)) {
				awakeEnd := cursor.Add(time.Duration(3+rng.Intn(12)) * time.Minute)
				st.add(wireSample{
					ID:      uuid.NewString(),
					StartAt: cursor.Format(time.RFC3339),
					EndAt:   awakeEnd.Format(time.RFC3339),
					Kind:    "AWAKE",
					Bundle:  "dev.sourcesim",
				})
				cursor = awakeEnd
			}
		}
	}

	fmt.Printf("seeded %d samples across %d nights\n", len(st.samples), seededDays)
}
