package browse

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/Makepad-fr/breeds/internal/model"
)

// fuzzyThreshold is the lowest Jaro-Winkler score accepted as a match.
const fuzzyThreshold = 0.85

// FindBreed resolves query against breeds: exact id, then case-insensitive
// name, then the closest name by Jaro-Winkler similarity.
func FindBreed(breeds []model.Breed, query string) (model.Breed, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return model.Breed{}, fmt.Errorf("%w: empty query", ErrUnknownBreed)
	}
	for _, b := range breeds {
		if b.ID.String() == q {
			return b, nil
		}
	}
	for _, b := range breeds {
		if strings.EqualFold(b.Name, q) {
			return b, nil
		}
	}

	var best model.Breed
	var bestScore float64
	for _, b := range breeds {
		score := matchr.JaroWinkler(strings.ToLower(q), strings.ToLower(b.Name), false)
		if score > bestScore {
			best, bestScore = b, score
		}
	}
	if bestScore < fuzzyThreshold {
		return model.Breed{}, fmt.Errorf("%w: %q", ErrUnknownBreed, q)
	}
	return best, nil
}
