package catalog

import (
	"strings"
	"sync"

	"macrolog/internal/model"
)

// snapshot is the read-mostly local copy of the catalogue used for
// autocomplete. Readers never block behind the backing store; the workflow
// tolerates the copy being stale.
type snapshot struct {
	mu    sync.RWMutex
	foods []model.FoodRecord
}

func newSnapshot() *snapshot {
	return &snapshot{}
}

// replace swaps in a freshly loaded food list.
func (s *snapshot) replace(foods []model.FoodRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = foods
}

// search returns foods whose names contain the query, case-insensitively.
// An empty query matches nothing.
func (s *snapshot) search(query string) []model.FoodRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []model.FoodRecord
	for _, food := range s.foods {
		if strings.Contains(strings.ToLower(food.Name), query) {
			matches = append(matches, food)
		}
	}

	return matches
}
