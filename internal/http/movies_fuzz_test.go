package httpserver

import (
	"encoding/json"
	"net/url"
	"testing"
)

func FuzzBuildMovieFilters(f *testing.F) {
	seeds := []string{
		"q=Inception&genre=Action&year=2010",
		"flop=true",
		"year=abc",
		"limit=200",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		_, _ = buildMovieFilters(values)
	})
}

func FuzzParseGross(f *testing.F) {
	for _, seed := range []string{"null", "0", "225000000", "-1", `"x"`, ""} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		got, msg := parseGross(json.RawMessage(raw))
		if msg != "" && got != nil {
			t.Fatalf("parseGross(%q) returned value with error %q", raw, msg)
		}
		if got != nil && *got < 0 {
			t.Fatalf("parseGross(%q) accepted negative %d", raw, *got)
		}
	})
}
