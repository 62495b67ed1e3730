// Command boxoffice-mock serves canned box office records keyed by title so
// the server can be run locally without the real upstream.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type revenueEntry struct {
	Worldwide        *int64 `json:"worldwide,omitempty"`
	OpeningWeekendUS *int64 `json:"openingWeekendUSA,omitempty"`
}

type movieEntry struct {
	Title       string       `json:"title"`
	Distributor *string      `json:"distributor,omitempty"`
	ReleaseDate *string      `json:"releaseDate,omitempty"`
	Budget      *int64       `json:"budget,omitempty"`
	Revenue     revenueEntry `json:"revenue"`
	MpaRating   *string      `json:"mpaRating,omitempty"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-boxoffice.json", "path to mock data file")
		apiKey  = flag.String("api-key", "", "require this X-API-Key value when set")
		verbose = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	entries, err := loadEntries(*data)
	if err != nil {
		log.Fatalf("load mock data: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if *verbose {
		r.Use(middleware.Logger)
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boxoffice", boxOfficeHandler(entries, *apiKey))

	addr := ":" + *port
	log.Printf("mock boxoffice listening on %s with %d entries", addr, len(entries))
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func loadEntries(path string) (map[string]movieEntry, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]movieEntry
	if err := json.Unmarshal(file, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func boxOfficeHandler(entries map[string]movieEntry, apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		entry, ok := entries[r.URL.Query().Get("title")]
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			log.Printf("encode entry: %v", err)
		}
	}
}
