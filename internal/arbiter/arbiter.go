// Package arbiter escalates ambiguous matches to an LLM that picks the
// matching candidate (or none) for each product in a batch.
package arbiter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/mahwous/pricewatch/internal/index"
)

// NoMatch is the verdict for "none of the candidates match".
const NoMatch = -1

// Item is one escalated product with its shortlisted candidates.
type Item struct {
	Name       string
	Price      float64
	Candidates []index.Candidate
}

// Resolver returns one verdict per item: a 0-based candidate index, or
// NoMatch. Implementations must return exactly len(batch) verdicts.
type Resolver interface {
	Resolve(ctx context.Context, batch []Item) ([]int, error)
}

// cacheKey hashes the batch content: item names and ordered candidate
// names. Prices and scores are deliberately excluded so re-runs with
// shifted prices still hit the cache.
func cacheKey(batch []Item) (string, error) {
	type entry struct {
		O string   `json:"o"`
		C []string `json:"c"`
	}
	entries := make([]entry, len(batch))
	for i, it := range batch {
		names := make([]string, len(it.Candidates))
		for j, c := range it.Candidates {
			names[j] = c.Name
		}
		entries[i] = entry{O: it.Name, C: names}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", eris.Wrap(err, "arbiter: marshal cache key")
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
