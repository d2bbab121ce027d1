// Package pipeline runs the end-to-end matching flow: search all
// competitor indexes, auto-accept clear winners, escalate ambiguous ones
// to the arbiter in batches, and attach pricing decisions.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mahwous/pricewatch/internal/arbiter"
	"github.com/mahwous/pricewatch/internal/catalog"
	"github.com/mahwous/pricewatch/internal/config"
	"github.com/mahwous/pricewatch/internal/extract"
	"github.com/mahwous/pricewatch/internal/index"
)

// Source tags how a match was decided.
type Source string

const (
	// SourceAuto is a score high enough to skip arbitration.
	SourceAuto Source = "auto"
	// SourceArbiter is an arbiter-confirmed candidate.
	SourceArbiter Source = "arbiter"
	// SourceArbiterNoMatch is an arbiter verdict that nothing matches.
	SourceArbiterNoMatch Source = "arbiter_no_match"
	// SourceFallback is the top fuzzy candidate kept because the arbiter
	// was unavailable. Deliberately distinct from SourceArbiter so
	// degraded runs are visible in the output.
	SourceFallback Source = "fallback"
	// SourceNone means no candidate survived the filters.
	SourceNone Source = "none"
)

// Decision buckets a result for the pricing report.
type Decision string

const (
	DecisionPriceHigher Decision = "price_higher"
	DecisionPriceLower  Decision = "price_lower"
	DecisionApproved    Decision = "approved"
	DecisionReview      Decision = "needs_review"
	DecisionMissing     Decision = "missing"
)

// Risk flags how urgently a price gap needs attention.
type Risk string

const (
	RiskCritical Risk = "critical"
	RiskMedium   Risk = "medium"
	RiskLow      Risk = "low"
)

// Result is one merchant product's matching outcome.
type Result struct {
	Product       string                `json:"product"`
	ProductID     string                `json:"product_id,omitempty"`
	Price         float64               `json:"price,omitempty"`
	Brand         string                `json:"brand,omitempty"`
	SizeML        float64               `json:"size_ml,omitempty"`
	Concentration extract.Concentration `json:"concentration,omitempty"`
	Gender        extract.Gender        `json:"gender,omitempty"`

	Match           *index.Candidate  `json:"match,omitempty"`
	Score           float64           `json:"score,omitempty"`
	PriceDiff       float64           `json:"price_diff,omitempty"`
	Source          Source            `json:"source"`
	Decision        Decision          `json:"decision"`
	Risk            Risk              `json:"risk,omitempty"`
	Confidence      string            `json:"confidence"`
	CompetitorCount int               `json:"competitor_count,omitempty"`
	Candidates      []index.Candidate `json:"candidates,omitempty"`
	MatchedAt       time.Time         `json:"matched_at"`
}

// Pipeline wires the indexes, the arbiter and the tunables together.
type Pipeline struct {
	matcher   config.MatcherConfig
	batchSize int
	indexes   []*index.Index
	resolver  arbiter.Resolver
	now       func() time.Time
}

// New builds a Pipeline. resolver may be nil, in which case the top
// candidate is auto-accepted the way a score above the threshold is.
func New(matcher config.MatcherConfig, batchSize int, indexes []*index.Index, resolver arbiter.Resolver) *Pipeline {
	if batchSize <= 0 {
		batchSize = 12
	}
	return &Pipeline{
		matcher:   matcher,
		batchSize: batchSize,
		indexes:   indexes,
		resolver:  resolver,
		now:       time.Now,
	}
}

func (p *Pipeline) params() index.Params {
	m := p.matcher
	return index.Params{
		MinMatchScore:               m.MinMatchScore,
		RecallLimit:                 m.RecallLimit,
		MaxSizeGapML:                m.MaxSizeGapML,
		CrossConcentrationSizeGapML: m.CrossConcentrationSizeGapML,
		ProductLineFloor:            m.ProductLineFloor,
		ProductLineGood:             m.ProductLineGood,
		ProductLineStrong:           m.ProductLineStrong,
		NoBrandProductLineFloor:     m.NoBrandProductLineFloor,
	}
}

// searched carries the per-item search output into the decision loop.
type searched struct {
	item  catalog.Item
	query index.Query
	cands []index.Candidate
	skip  bool
}

// pendingItem is an item waiting in the escalation buffer. pos is the
// item's slot in the output slice, so flushed batches land back in
// catalog order.
type pendingItem struct {
	searched
	shortlist []index.Candidate
	pos       int
}

// Run processes the merchant catalog and returns one Result per usable
// item, in catalog order. Empty and rejected (sample/decant) rows are
// skipped entirely.
func (p *Pipeline) Run(ctx context.Context, ours *catalog.Catalog) ([]Result, error) {
	prepared, err := p.searchAll(ctx, ours)
	if err != nil {
		return nil, err
	}

	usable := 0
	for _, s := range prepared {
		if !s.skip {
			usable++
		}
	}

	results := make([]Result, usable)
	var pending []pendingItem

	flush := func() {
		if len(pending) == 0 {
			return
		}
		for i, r := range p.arbitrate(ctx, pending) {
			results[pending[i].pos] = r
		}
		pending = pending[:0]
	}

	pos := 0
	for _, s := range prepared {
		if s.skip {
			continue
		}
		if len(s.cands) == 0 {
			results[pos] = p.buildResult(s, nil, nil, SourceNone)
			pos++
			continue
		}

		shortlist := s.cands
		if len(shortlist) > p.matcher.TopCandidates {
			shortlist = shortlist[:p.matcher.TopCandidates]
		}

		if shortlist[0].Score >= p.matcher.AutoAcceptScore || p.resolver == nil {
			results[pos] = p.buildResult(s, &shortlist[0], s.cands, SourceAuto)
			pos++
			continue
		}

		pending = append(pending, pendingItem{searched: s, shortlist: shortlist, pos: pos})
		pos++
		if len(pending) >= p.batchSize {
			flush()
		}
	}
	flush()

	zap.L().Info("pipeline finished",
		zap.Int("items", len(ours.Items)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// searchAll runs attribute extraction and index searches for every item,
// optionally across a bounded worker pool. Output order always follows
// the catalog.
func (p *Pipeline) searchAll(ctx context.Context, ours *catalog.Catalog) ([]searched, error) {
	prepared := make([]searched, len(ours.Items))
	params := p.params()

	process := func(i int) {
		item := ours.Items[i]
		s := searched{item: item}
		if item.Name == "" {
			s.skip = true
			prepared[i] = s
			return
		}
		s.query = index.NewQuery(item.Name)
		if s.query.Classification == extract.ClassRejected {
			s.skip = true
			prepared[i] = s
			return
		}
		for _, idx := range p.indexes {
			s.cands = append(s.cands, idx.Search(s.query, params, p.matcher.TopCandidates)...)
		}
		index.SortCandidates(s.cands)
		prepared[i] = s
	}

	if p.matcher.Workers > 1 {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(p.matcher.Workers)
		for i := range ours.Items {
			g.Go(func() error {
				process(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return prepared, nil
	}

	for i := range ours.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		process(i)
	}
	return prepared, nil
}

// arbitrate sends one escalation batch to the resolver and converts its
// verdicts to results. A resolver failure degrades every item in the
// batch to its top fuzzy candidate, tagged SourceFallback.
func (p *Pipeline) arbitrate(ctx context.Context, pending []pendingItem) []Result {
	batch := make([]arbiter.Item, len(pending))
	for i, pd := range pending {
		batch[i] = arbiter.Item{
			Name:       pd.item.Name,
			Price:      pd.item.Price,
			Candidates: pd.shortlist,
		}
	}

	verdicts, err := p.resolver.Resolve(ctx, batch)
	if err != nil {
		zap.L().Warn("arbiter unavailable, keeping top fuzzy candidates",
			zap.Int("batch", len(pending)), zap.Error(err))
		out := make([]Result, len(pending))
		for i, pd := range pending {
			out[i] = p.buildResult(pd.searched, &pd.shortlist[0], pd.cands, SourceFallback)
		}
		return out
	}

	out := make([]Result, len(pending))
	for i, pd := range pending {
		v := 0
		if i < len(verdicts) {
			v = verdicts[i]
		}
		if v == arbiter.NoMatch {
			out[i] = p.buildResult(pd.searched, nil, pd.cands, SourceArbiterNoMatch)
			continue
		}
		if v < 0 || v >= len(pd.shortlist) {
			v = 0
		}
		out[i] = p.buildResult(pd.searched, &pd.shortlist[v], pd.cands, SourceArbiter)
	}
	return out
}

// buildResult attaches pricing decision, risk tier and confidence label.
func (p *Pipeline) buildResult(s searched, match *index.Candidate, allCands []index.Candidate, source Source) Result {
	r := Result{
		Product:       s.item.Name,
		ProductID:     s.item.ID,
		Price:         s.item.Price,
		Brand:         s.query.Brand,
		SizeML:        s.query.SizeML,
		Concentration: s.query.Concentration,
		Gender:        s.query.Gender,
		Source:        source,
		MatchedAt:     p.now().UTC(),
	}

	if match == nil {
		r.Decision = DecisionMissing
		r.Confidence = confidenceLabel(source, 0)
		return r
	}

	m := *match
	r.Match = &m
	r.Score = m.Score

	top := allCands
	if len(top) > p.matcher.TopCandidates {
		top = top[:p.matcher.TopCandidates]
	}
	r.Candidates = top
	r.CompetitorCount = countCompetitors(top)

	if r.Price > 0 && m.Price > 0 {
		r.PriceDiff = math.Round((r.Price-m.Price)*100) / 100
	}

	r.Risk = p.riskTier(r.PriceDiff, m.Price, m.Score)
	r.Decision = p.decide(r, source)
	r.Confidence = confidenceLabel(source, m.Score)
	return r
}

// decide buckets a matched result by price gap, or sends it to review
// when the match itself is not trusted.
func (p *Pipeline) decide(r Result, source Source) Decision {
	confirmed := source == SourceAuto || source == SourceArbiter ||
		r.Score >= p.matcher.HighConfidenceScore
	if !confirmed {
		return DecisionReview
	}
	if r.Price <= 0 || r.Match.Price <= 0 {
		return DecisionReview
	}
	switch {
	case r.PriceDiff > p.matcher.PriceDiffThreshold:
		return DecisionPriceHigher
	case r.PriceDiff < -p.matcher.PriceDiffThreshold:
		return DecisionPriceLower
	default:
		return DecisionApproved
	}
}

// riskTier grades the percentage price gap weighted by match strength.
func (p *Pipeline) riskTier(diff, compPrice, score float64) Risk {
	if compPrice <= 0 {
		return RiskLow
	}
	pct := math.Abs(diff/compPrice) * 100
	switch {
	case pct > p.matcher.RiskCriticalPct && score >= p.matcher.RiskCriticalScore:
		return RiskCritical
	case pct > p.matcher.RiskMediumPct && score >= p.matcher.ReviewScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

// confidenceLabel renders the report label for a match source.
func confidenceLabel(source Source, score float64) string {
	switch source {
	case SourceAuto:
		return fmt.Sprintf("auto %.0f%%", score)
	case SourceArbiter:
		return fmt.Sprintf("arbiter %.0f%%", score)
	case SourceArbiterNoMatch:
		return "arbiter no-match"
	case SourceFallback:
		return fmt.Sprintf("degraded %.0f%%", score)
	default:
		return "none"
	}
}

func countCompetitors(cands []index.Candidate) int {
	seen := make(map[string]bool, len(cands))
	for _, c := range cands {
		seen[c.Competitor] = true
	}
	return len(seen)
}

// Summarize aggregates headline counts for run records.
func Summarize(results []Result) (items, matched, escalated, review, missing int) {
	for _, r := range results {
		items++
		if r.Decision == DecisionMissing {
			missing++
		} else {
			matched++
		}
		if r.Source == SourceArbiter || r.Source == SourceArbiterNoMatch || r.Source == SourceFallback {
			escalated++
		}
		if r.Decision == DecisionReview {
			review++
		}
	}
	return
}
