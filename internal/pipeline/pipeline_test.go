package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahwous/pricewatch/internal/arbiter"
	"github.com/mahwous/pricewatch/internal/catalog"
	"github.com/mahwous/pricewatch/internal/config"
	"github.com/mahwous/pricewatch/internal/index"
)

func testMatcher() config.MatcherConfig {
	return config.MatcherConfig{
		MinMatchScore:               68,
		AutoAcceptScore:             97,
		HighConfidenceScore:         92,
		ReviewScore:                 75,
		RecallLimit:                 25,
		TopCandidates:               5,
		MaxSizeGapML:                30,
		CrossConcentrationSizeGapML: 3,
		ProductLineFloor:            78,
		ProductLineGood:             88,
		ProductLineStrong:           94,
		NoBrandProductLineFloor:     85,
		MissingCutoff:               70,
		PriceDiffThreshold:          10,
		RiskCriticalPct:             20,
		RiskMediumPct:               10,
		RiskCriticalScore:           85,
	}
}

type stubResolver struct {
	verdicts []int
	err      error
	batches  [][]arbiter.Item
}

func (s *stubResolver) Resolve(_ context.Context, batch []arbiter.Item) ([]int, error) {
	s.batches = append(s.batches, batch)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]int, len(batch))
	for i := range batch {
		if i < len(s.verdicts) {
			out[i] = s.verdicts[i]
		}
	}
	return out, nil
}

func cat(name string, items ...catalog.Item) *catalog.Catalog {
	return &catalog.Catalog{Name: name, Items: items}
}

func indexes(cats ...*catalog.Catalog) []*index.Index {
	out := make([]*index.Index, len(cats))
	for i, c := range cats {
		out[i] = index.Build(c)
	}
	return out
}

func TestRun_AutoAcceptSkipsResolver(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 420},
	)
	ours := cat("merchant",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 430},
	)
	r := &stubResolver{}
	p := New(testMatcher(), 12, indexes(comp), r)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, SourceAuto, results[0].Source)
	require.NotNil(t, results[0].Match)
	assert.GreaterOrEqual(t, results[0].Score, 97.0)
	assert.Empty(t, r.batches, "exact matches must not reach the arbiter")
}

func TestRun_ArbiterVerdictsMapped(t *testing.T) {
	// Concentration mismatch keeps the scores below auto-accept, so both
	// candidates reach the arbiter.
	comp := cat("goldenscent",
		catalog.Item{Name: "Dior Sauvage EDT 98 ml", Price: 290},
		catalog.Item{Name: "Dior Sauvage EDT 99 ml", Price: 295},
	)
	ours := cat("merchant",
		catalog.Item{Name: "Dior Sauvage EDP 100 ml", Price: 330},
	)

	r := &stubResolver{verdicts: []int{1}}
	p := New(testMatcher(), 12, indexes(comp), r)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, r.batches, 1)
	require.Len(t, r.batches[0][0].Candidates, 2)

	assert.Equal(t, SourceArbiter, results[0].Source)
	require.NotNil(t, results[0].Match)
	// verdict 1 picks the second shortlist entry
	assert.Equal(t, r.batches[0][0].Candidates[1].Name, results[0].Match.Name)
}

func TestRun_ArbiterNoMatch(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "Dior Sauvage EDT 98 ml", Price: 290},
	)
	ours := cat("merchant",
		catalog.Item{Name: "Dior Sauvage EDP 100 ml", Price: 330},
	)

	r := &stubResolver{verdicts: []int{arbiter.NoMatch}}
	p := New(testMatcher(), 12, indexes(comp), r)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, SourceArbiterNoMatch, results[0].Source)
	assert.Nil(t, results[0].Match)
	assert.Equal(t, DecisionMissing, results[0].Decision)
	assert.Equal(t, "arbiter no-match", results[0].Confidence)
}

func TestRun_ResolverFailureFallsBack(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "Dior Sauvage EDT 98 ml", Price: 290},
	)
	ours := cat("merchant",
		catalog.Item{Name: "Dior Sauvage EDP 100 ml", Price: 330},
	)

	r := &stubResolver{err: eris.New("api down")}
	p := New(testMatcher(), 12, indexes(comp), r)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err, "a dead arbiter must not fail the run")
	require.Len(t, results, 1)

	assert.Equal(t, SourceFallback, results[0].Source)
	require.NotNil(t, results[0].Match)
	assert.Equal(t, DecisionReview, results[0].Decision)
}

func TestRun_NoCandidates(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "شانيل بلو او دو بارفان 100 مل", Price: 500},
	)
	ours := cat("merchant",
		catalog.Item{Name: "توم فورد توباكو فانيل 50 مل", Price: 900},
	)
	p := New(testMatcher(), 12, indexes(comp), nil)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, SourceNone, results[0].Source)
	assert.Nil(t, results[0].Match)
	assert.Equal(t, DecisionMissing, results[0].Decision)
	assert.Equal(t, "none", results[0].Confidence)
}

func TestRun_SkipsEmptyAndRejectedRows(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 420},
	)
	ours := cat("merchant",
		catalog.Item{Name: ""},
		catalog.Item{Name: "عينة ديور سوفاج 2 مل", Price: 15},
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 430},
	)
	p := New(testMatcher(), 12, indexes(comp), nil)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ديور سوفاج او دو بارفان 100 مل", results[0].Product)
}

func TestRun_PriceDecisions(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 230},
	)
	run := func(ourPrice float64) Result {
		t.Helper()
		ours := cat("merchant",
			catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: ourPrice},
		)
		p := New(testMatcher(), 12, indexes(comp), nil)
		results, err := p.Run(context.Background(), ours)
		require.NoError(t, err)
		require.Len(t, results, 1)
		return results[0]
	}

	higher := run(250)
	assert.Equal(t, DecisionPriceHigher, higher.Decision)
	assert.InDelta(t, 20, higher.PriceDiff, 0.01)

	lower := run(210)
	assert.Equal(t, DecisionPriceLower, lower.Decision)
	assert.InDelta(t, -20, lower.PriceDiff, 0.01)

	approved := run(235)
	assert.Equal(t, DecisionApproved, approved.Decision)
}

func TestRun_MissingPriceGoesToReview(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل"},
	)
	ours := cat("merchant",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 430},
	)
	p := New(testMatcher(), 12, indexes(comp), nil)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, DecisionReview, results[0].Decision)
	assert.Zero(t, results[0].PriceDiff)
}

func TestRun_RiskTiers(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 230},
	)
	run := func(ourPrice float64) Risk {
		t.Helper()
		ours := cat("merchant",
			catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: ourPrice},
		)
		p := New(testMatcher(), 12, indexes(comp), nil)
		results, err := p.Run(context.Background(), ours)
		require.NoError(t, err)
		return results[0].Risk
	}

	// 70/230 is a 30% gap on a near-perfect match
	assert.Equal(t, RiskCritical, run(300))
	// 30/230 is 13%
	assert.Equal(t, RiskMedium, run(260))
	// 20/230 is under 10%
	assert.Equal(t, RiskLow, run(250))
}

func TestRun_RiskTiersFollowConfig(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 230},
	)
	ours := cat("merchant",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 260},
	)
	run := func(m config.MatcherConfig) Risk {
		t.Helper()
		p := New(m, 12, indexes(comp), nil)
		results, err := p.Run(context.Background(), ours)
		require.NoError(t, err)
		return results[0].Risk
	}

	// A 13% gap is medium under the defaults.
	assert.Equal(t, RiskMedium, run(testMatcher()))

	// Tightening the critical percentage promotes the same gap.
	m := testMatcher()
	m.RiskCriticalPct = 12
	assert.Equal(t, RiskCritical, run(m))

	// Raising the medium score floor above a perfect match demotes it.
	m = testMatcher()
	m.ReviewScore = 101
	assert.Equal(t, RiskLow, run(m))
}

func TestRun_ResultsFollowCatalogOrder(t *testing.T) {
	// Escalated items flush after later auto-accepted ones; the output
	// must still line up with the merchant catalog.
	comp := cat("goldenscent",
		catalog.Item{Name: "Dior Sauvage EDT 98 ml", Price: 290},
		catalog.Item{Name: "شانيل بلو او دو بارفان 100 مل", Price: 430},
		catalog.Item{Name: "Armani Code EDT 98 ml", Price: 300},
	)
	ours := cat("merchant",
		catalog.Item{Name: "Dior Sauvage EDP 100 ml", Price: 330},
		catalog.Item{Name: "شانيل بلو او دو بارفان 100 مل", Price: 460},
		catalog.Item{Name: "Armani Code EDP 100 ml", Price: 340},
	)
	rs := &stubResolver{verdicts: []int{0, 0}}

	p := New(testMatcher(), 12, indexes(comp), rs)
	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "Dior Sauvage EDP 100 ml", results[0].Product)
	assert.Equal(t, "شانيل بلو او دو بارفان 100 مل", results[1].Product)
	assert.Equal(t, "Armani Code EDP 100 ml", results[2].Product)
	assert.Equal(t, SourceArbiter, results[0].Source)
	assert.Equal(t, SourceAuto, results[1].Source)
	assert.Equal(t, SourceArbiter, results[2].Source)
}

func TestRun_BatchFlushing(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "Dior Sauvage EDT 98 ml", Price: 290},
		catalog.Item{Name: "Chanel Bleu EDT 98 ml", Price: 430},
		catalog.Item{Name: "Armani Code EDT 98 ml", Price: 300},
	)
	ours := cat("merchant",
		catalog.Item{Name: "Dior Sauvage EDP 100 ml", Price: 330},
		catalog.Item{Name: "Chanel Bleu EDP 100 ml", Price: 470},
		catalog.Item{Name: "Armani Code EDP 100 ml", Price: 320},
	)

	r := &stubResolver{}
	p := New(testMatcher(), 2, indexes(comp), r)

	results, err := p.Run(context.Background(), ours)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Len(t, r.batches, 2)
	assert.Len(t, r.batches[0], 2)
	assert.Len(t, r.batches[1], 1)
}

func TestRun_WorkersMatchSerial(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "بربري هيرو او دو بارفان 100 مل", Price: 380},
		catalog.Item{Name: "شانيل بلو او دو بارفان 100 مل", Price: 500},
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 420},
		catalog.Item{Name: "ارماني اكوا دي جيو 100 مل", Price: 350},
	)
	ours := cat("merchant",
		catalog.Item{Name: "بربري هيرو 100 مل", Price: 400},
		catalog.Item{Name: "شانيل بلو او دو بارفان 100 مل", Price: 520},
		catalog.Item{Name: "ارماني اكوا دي جيو 100 مل", Price: 340},
	)

	serial := New(testMatcher(), 12, indexes(comp), nil)
	serialResults, err := serial.Run(context.Background(), ours)
	require.NoError(t, err)

	m := testMatcher()
	m.Workers = 4
	parallel := New(m, 12, indexes(comp), nil)
	parallelResults, err := parallel.Run(context.Background(), ours)
	require.NoError(t, err)

	require.Len(t, parallelResults, len(serialResults))
	for i := range serialResults {
		assert.Equal(t, serialResults[i].Product, parallelResults[i].Product)
		assert.Equal(t, serialResults[i].Score, parallelResults[i].Score)
		assert.Equal(t, serialResults[i].Decision, parallelResults[i].Decision)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	comp := cat("goldenscent",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 420},
	)
	ours := cat("merchant",
		catalog.Item{Name: "ديور سوفاج او دو بارفان 100 مل", Price: 430},
	)
	p := New(testMatcher(), 12, indexes(comp), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, ours)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Source: SourceAuto, Decision: DecisionApproved},
		{Source: SourceArbiter, Decision: DecisionPriceHigher},
		{Source: SourceArbiterNoMatch, Decision: DecisionMissing},
		{Source: SourceFallback, Decision: DecisionReview},
		{Source: SourceNone, Decision: DecisionMissing},
	}
	items, matched, escalated, review, missing := Summarize(results)
	assert.Equal(t, 5, items)
	assert.Equal(t, 3, matched)
	assert.Equal(t, 3, escalated)
	assert.Equal(t, 1, review)
	assert.Equal(t, 2, missing)
}
