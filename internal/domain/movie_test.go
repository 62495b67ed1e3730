package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gross(v int64) *int64 { return &v }

func TestIsFlop(t *testing.T) {
	tests := []struct {
		name  string
		gross *int64
		want  bool
	}{
		{"absent", nil, true},
		{"zero", gross(0), true},
		{"just below threshold", gross(224_999_999), true},
		{"at threshold", gross(225_000_000), false},
		{"well above threshold", gross(500_000_000), false},
		{"negative", gross(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFlop(tt.gross))
		})
	}
}

func TestMovieIsFlop(t *testing.T) {
	m := Movie{Title: "Inception"}
	assert.True(t, m.IsFlop(), "movie without total gross is a flop")

	m.TotalGross = gross(836_800_000)
	assert.False(t, m.IsFlop())

	m.TotalGross = gross(FlopThreshold - 1)
	assert.True(t, m.IsFlop())
}

func TestIsFlopDoesNotMutateInput(t *testing.T) {
	v := gross(FlopThreshold)
	require.False(t, IsFlop(v))
	assert.Equal(t, FlopThreshold, *v)
}

func TestIsFlopConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := FlopThreshold - 16 + int64(i)
			if got, want := IsFlop(&v), v < FlopThreshold; got != want {
				t.Errorf("IsFlop(%d) = %v, want %v", v, got, want)
			}
		}(i)
	}
	wg.Wait()
}

func FuzzIsFlop(f *testing.F) {
	f.Add(int64(0), false)
	f.Add(FlopThreshold, false)
	f.Add(FlopThreshold-1, false)
	f.Add(int64(0), true)

	f.Fuzz(func(t *testing.T, v int64, absent bool) {
		if absent {
			if !IsFlop(nil) {
				t.Fatalf("absent gross must be a flop")
			}
			return
		}
		if got, want := IsFlop(&v), v < FlopThreshold; got != want {
			t.Fatalf("IsFlop(%d) = %v, want %v", v, got, want)
		}
	})
}
