package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RandSource supplies the uniform randomness for dice rolls and effect
// probability draws. Implementations must be safe for the caller's use; the
// default process source is locked.
type RandSource interface {
	// Intn returns a non-negative random int in [0, n). n must be > 0.
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// DefaultRand is the process-level randomness source.
var DefaultRand RandSource = &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}

// RollFormula evaluates a formula of the form "<int>" or "<int>+<N>d<S>",
// where NdS sums N uniform rolls in [1,S]. Malformed or empty input yields 0
// rather than an error; a term with a non-numeric part contributes 0. Every
// call re-rolls, results are never memoized.
func RollFormula(formula string, rng RandSource) int {
	total := 0
	for _, term := range strings.Split(formula, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if n, s, ok := strings.Cut(term, "d"); ok {
			total += rollDice(n, s, rng)
			continue
		}
		if v, err := strconv.Atoi(term); err == nil {
			total += v
		}
	}
	return total
}

func rollDice(nStr, sStr string, rng RandSource) int {
	n, err := strconv.Atoi(nStr)
	if err != nil || n <= 0 {
		return 0
	}
	sides, err := strconv.Atoi(sStr)
	if err != nil || sides <= 0 {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += rng.Intn(sides) + 1
	}
	return sum
}
