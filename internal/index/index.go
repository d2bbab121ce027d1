// Package index precomputes competitor catalog attributes and serves
// candidate searches for the matching pipeline.
package index

import (
	"math"
	"sort"

	"github.com/mahwous/pricewatch/internal/catalog"
	"github.com/mahwous/pricewatch/internal/extract"
	"github.com/mahwous/pricewatch/internal/similarity"
	"github.com/mahwous/pricewatch/internal/textnorm"
)

// Params are the search tunables. Zero values are not defaulted here;
// callers pass the configured values.
type Params struct {
	MinMatchScore               float64
	RecallLimit                 int
	MaxSizeGapML                float64
	CrossConcentrationSizeGapML float64
	ProductLineFloor            float64
	ProductLineGood             float64
	ProductLineStrong           float64
	NoBrandProductLineFloor     float64
}

// Composite score weights over the three similarity signals.
const (
	weightTokenSort = 0.35
	weightTokenSet  = 0.35
	weightPartial   = 0.30
)

// recallFloor is the absolute minimum for the lexical recall cutoff.
const recallFloor = 40.0

// Candidate is one scored competitor product.
type Candidate struct {
	Name          string                `json:"name"`
	Score         float64               `json:"score"`
	Price         float64               `json:"price,omitempty"`
	ProductID     string                `json:"product_id,omitempty"`
	Brand         string                `json:"brand,omitempty"`
	SizeML        float64               `json:"size_ml,omitempty"`
	Concentration extract.Concentration `json:"concentration,omitempty"`
	Gender        extract.Gender        `json:"gender,omitempty"`
	Competitor    string                `json:"competitor"`

	// pos is the catalog position, used as the deterministic tie-break.
	pos int
}

// Query carries the precomputed attributes of one merchant product.
type Query struct {
	Raw            string
	Norm           string
	Brand          string
	brandNorm      string
	SizeML         float64
	Concentration  extract.Concentration
	Gender         extract.Gender
	ProductLine    string
	Classification extract.Classification
	Numbers        map[string]bool
}

// NewQuery extracts and normalizes all attributes of a product name.
func NewQuery(text string) Query {
	attrs := extract.All(text)
	norm := textnorm.Normalize(text)
	return Query{
		Raw:            text,
		Norm:           norm,
		Brand:          attrs.Brand,
		brandNorm:      textnorm.Normalize(attrs.Brand),
		SizeML:         attrs.SizeML,
		Concentration:  attrs.Concentration,
		Gender:         attrs.Gender,
		ProductLine:    attrs.ProductLine,
		Classification: attrs.Classification,
		Numbers:        extract.IdentifyingNumbers(norm),
	}
}

type entry struct {
	raw       string
	norm      string
	brand     string
	brandNorm string
	size      float64
	conc      extract.Concentration
	gender    extract.Gender
	pline     string
	class     extract.Classification
	nums      map[string]bool
	price     float64
	id        string
}

// Index holds one competitor catalog with all attributes precomputed.
type Index struct {
	Competitor string
	entries    []entry
}

// Build precomputes attributes for every item in the catalog, once.
func Build(cat *catalog.Catalog) *Index {
	idx := &Index{
		Competitor: cat.Name,
		entries:    make([]entry, len(cat.Items)),
	}
	for i, it := range cat.Items {
		attrs := extract.All(it.Name)
		norm := textnorm.Normalize(it.Name)
		idx.entries[i] = entry{
			raw:       it.Name,
			norm:      norm,
			brand:     attrs.Brand,
			brandNorm: textnorm.Normalize(attrs.Brand),
			size:      attrs.SizeML,
			conc:      attrs.Concentration,
			gender:    attrs.Gender,
			pline:     attrs.ProductLine,
			class:     attrs.Classification,
			nums:      extract.IdentifyingNumbers(norm),
			price:     it.Price,
			id:        it.ID,
		}
	}
	return idx
}

// Len returns the number of indexed items.
func (idx *Index) Len() int { return len(idx.entries) }

// recallHit pairs an entry position with its lexical recall score.
type recallHit struct {
	pos   int
	score float64
}

// Search returns up to topN scored candidates for the query, best first.
// Ties break by catalog order so results are deterministic.
func (idx *Index) Search(q Query, p Params, topN int) []Candidate {
	if len(idx.entries) == 0 || q.Norm == "" {
		return nil
	}

	// Lexical recall: cheap token-set pass over every non-rejected entry.
	cutoff := math.Max(p.MinMatchScore-15, recallFloor)
	hits := make([]recallHit, 0, len(idx.entries))
	for i := range idx.entries {
		e := &idx.entries[i]
		if e.class == extract.ClassRejected {
			continue
		}
		s := similarity.TokenSetRatio(q.Norm, e.norm)
		if s < cutoff {
			continue
		}
		hits = append(hits, recallHit{pos: i, score: s})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].pos < hits[b].pos
	})
	if p.RecallLimit > 0 && len(hits) > p.RecallLimit {
		hits = hits[:p.RecallLimit]
	}

	var cands []Candidate
	seen := make(map[string]bool)
	for _, h := range hits {
		e := &idx.entries[h.pos]
		if seen[e.raw] {
			continue
		}
		if !idx.passesFilters(q, e, p) {
			continue
		}

		plinePenalty, ok := productLinePenalty(q, e, p)
		if !ok {
			continue
		}

		score := idx.score(q, e, plinePenalty)
		if score < p.MinMatchScore {
			continue
		}

		seen[e.raw] = true
		cands = append(cands, Candidate{
			Name:          e.raw,
			Score:         score,
			Price:         e.price,
			ProductID:     e.id,
			Brand:         e.brand,
			SizeML:        e.size,
			Concentration: e.conc,
			Gender:        e.gender,
			Competitor:    idx.Competitor,
			pos:           h.pos,
		})
	}

	SortCandidates(cands)
	if topN > 0 && len(cands) > topN {
		cands = cands[:topN]
	}
	return cands
}

// passesFilters applies the hard rejection filters.
func (idx *Index) passesFilters(q Query, e *entry, p Params) bool {
	// Different recognized brands never match.
	if q.brandNorm != "" && e.brandNorm != "" && q.brandNorm != e.brandNorm {
		return false
	}

	// Bottle sizes too far apart.
	if q.SizeML > 0 && e.size > 0 {
		gap := math.Abs(q.SizeML - e.size)
		if gap > p.MaxSizeGapML {
			return false
		}
		// Concentration mismatch tolerates almost no size gap: a 100ml
		// EDT is routinely a different product than a 105ml EDP.
		if q.Concentration != "" && e.conc != "" && q.Concentration != e.conc &&
			gap > p.CrossConcentrationSizeGapML {
			return false
		}
	}

	// Explicit gender conflict.
	if q.Gender != "" && e.gender != "" && q.Gender != e.gender {
		return false
	}

	// Product families: testers with testers, sets/mists isolated.
	if !extract.FamiliesCompatible(q.Classification, e.class) {
		return false
	}

	// Identifying numbers (No 5 vs No 9, 212 vs 360).
	if extract.NumberSetsDiffer(q.Numbers, e.nums) {
		return false
	}

	return true
}

// productLinePenalty compares product lines. Returns the additive penalty
// and false when the pair is rejected outright.
func productLinePenalty(q Query, e *entry, p Params) (float64, bool) {
	if q.ProductLine == "" || e.pline == "" {
		return 0, true
	}
	pl := similarity.TokenSortRatio(q.ProductLine, e.pline)

	if q.brandNorm != "" && e.brandNorm != "" {
		// Same brand (different brands were already filtered): the
		// product line is the only thing separating Hero from London.
		switch {
		case pl < p.ProductLineFloor:
			return 0, false
		case pl < p.ProductLineGood:
			return -20, true
		case pl < p.ProductLineStrong:
			return -10, true
		}
		return 0, true
	}

	if q.brandNorm == "" && e.brandNorm == "" && pl < p.NoBrandProductLineFloor {
		// Neither side has a recognized brand, so nothing but the
		// product line anchors identity.
		return 0, false
	}

	switch {
	case pl < 65:
		return -35, true
	case pl < 80:
		return -22, true
	}
	return 0, true
}

// score computes the composite similarity plus attribute adjustments,
// clamped to [0,100] and rounded to one decimal.
func (idx *Index) score(q Query, e *entry, plinePenalty float64) float64 {
	s1 := similarity.TokenSortRatio(q.Norm, e.norm)
	s2 := similarity.TokenSetRatio(q.Norm, e.norm)
	s3 := similarity.PartialRatio(q.Norm, e.norm)
	base := s1*weightTokenSort + s2*weightTokenSet + s3*weightPartial

	// Brand agreement. Conflicting brands were filtered, so both-present
	// means equal.
	switch {
	case q.brandNorm != "" && e.brandNorm != "":
		base += 10
	case q.brandNorm != "" || e.brandNorm != "":
		base -= 25
	default:
		base -= 10
	}

	// Size agreement.
	if q.SizeML > 0 && e.size > 0 {
		switch d := math.Abs(q.SizeML - e.size); {
		case d == 0:
			base += 10
		case d <= 5:
			base -= 5
		case d <= 20:
			base -= 18
		default:
			base -= 30
		}
	}

	// Concentration mismatch survives only within the tight size gap.
	if q.Concentration != "" && e.conc != "" && q.Concentration != e.conc {
		base -= 14
	}

	// One side genderless, the other explicit.
	if (q.Gender != "" || e.gender != "") && q.Gender != e.gender {
		base -= 15
	}

	base += plinePenalty

	return math.Round(math.Max(0, math.Min(100, base))*10) / 10
}

// SortCandidates orders candidates by score descending, breaking ties by
// catalog position so repeated runs produce identical output.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].Score != cands[b].Score {
			return cands[a].Score > cands[b].Score
		}
		return cands[a].pos < cands[b].pos
	})
}
