package arbiter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mahwous/pricewatch/internal/config"
	"github.com/mahwous/pricewatch/internal/resilience"
	"github.com/mahwous/pricewatch/internal/store"
	"github.com/mahwous/pricewatch/pkg/anthropic"
)

const systemPrompt = "خبير عطور فاخرة. لكل منتج اختر رقم المرشح المطابق تماماً أو 0 إذا لا يوجد.\n" +
	"الشروط: نفس الماركة، نفس الحجم (±5ml)، نفس التركيز EDP/EDT، نفس الجنس إذا ذُكر."

// Client resolves batches through the Anthropic messages API, with a
// persistent verdict cache keyed on batch content.
type Client struct {
	api     anthropic.Client
	store   store.Store
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *resilience.Breaker
	retry   resilience.RetryConfig
}

// New builds a Client from configuration. The store is used as a verdict
// cache; its failures degrade to cache misses, never errors.
func New(api anthropic.Client, st store.Store, cfg config.ArbiterConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	timeout := 30 * time.Second
	if cfg.TimeoutSecs > 0 {
		timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	return &Client{
		api:     api,
		store:   st,
		model:   cfg.Model,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
		breaker: resilience.NewBreaker(5, time.Minute),
		retry: resilience.DefaultRetryConfig().
			WithMaxAttempts(cfg.MaxAttempts),
	}
}

// Resolve implements Resolver. The cache is consulted before any API
// call and written after a successful one.
func (c *Client) Resolve(ctx context.Context, batch []Item) ([]int, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	key, err := cacheKey(batch)
	if err != nil {
		return nil, err
	}
	if verdicts, ok := c.cachedVerdicts(ctx, key, len(batch)); ok {
		zap.L().Debug("arbiter cache hit", zap.String("key", key), zap.Int("batch", len(batch)))
		return verdicts, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "arbiter: rate limit wait")
	}

	prompt := buildPrompt(batch)
	cfg := c.retry
	cfg.OnRetry = resilience.RetryLogger("arbiter", "resolve_batch")

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.BreakerVal(ctx, c.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return c.api.CreateMessage(callCtx, anthropic.MessageRequest{
				Model:     c.model,
				MaxTokens: 200,
				System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
				Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
			})
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "arbiter: resolve batch")
	}
	resp.Usage.LogCost(c.model, "arbiter")

	verdicts, err := parseVerdicts(resp.Text(), batch)
	if err != nil {
		return nil, err
	}

	c.writeCache(ctx, key, verdicts)
	return verdicts, nil
}

// cachedVerdicts looks up and validates a cached verdict list. Any store
// error or malformed entry counts as a miss.
func (c *Client) cachedVerdicts(ctx context.Context, key string, n int) ([]int, bool) {
	if c.store == nil {
		return nil, false
	}
	raw, found, err := c.store.GetVerdict(ctx, key)
	if err != nil {
		zap.L().Warn("arbiter cache read failed", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	var verdicts []int
	if err := json.Unmarshal([]byte(raw), &verdicts); err != nil || len(verdicts) != n {
		zap.L().Warn("arbiter cache entry malformed", zap.String("key", key))
		return nil, false
	}
	return verdicts, true
}

func (c *Client) writeCache(ctx context.Context, key string, verdicts []int) {
	if c.store == nil {
		return
	}
	b, err := json.Marshal(verdicts)
	if err != nil {
		return
	}
	if err := c.store.PutVerdict(ctx, key, string(b)); err != nil {
		zap.L().Warn("arbiter cache write failed", zap.Error(err))
	}
}

// buildPrompt renders the batch the way the reviewer prompt expects:
// numbered items, each with its numbered candidate shortlist.
func buildPrompt(batch []Item) string {
	var b strings.Builder
	for i, it := range batch {
		fmt.Fprintf(&b, "[%d] منتجنا: «%s» (%.0fر.س)\n", i+1, it.Name, it.Price)
		for j, cand := range it.Candidates {
			conc := string(cand.Concentration)
			if conc == "" {
				conc = "?"
			}
			gender := string(cand.Gender)
			if gender == "" {
				gender = "?"
			}
			fmt.Fprintf(&b, "  %d. %s | %dml | %s | %s | %.0fر.س\n",
				j+1, cand.Name, int(cand.SizeML), conc, gender, cand.Price)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "JSON فقط: {\"results\":[r1,...,r%d]}", len(batch))
	return b.String()
}

// parseVerdicts extracts the results array from a possibly fenced or
// padded model reply. Out-of-range or garbled entries default to the
// first candidate rather than failing the whole batch.
func parseVerdicts(text string, batch []Item) ([]int, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return nil, eris.Errorf("arbiter: no JSON object in reply %q", truncate(text, 120))
	}

	var payload struct {
		Results []json.Number `json:"results"`
	}
	if err := json.Unmarshal([]byte(clean[start:end+1]), &payload); err != nil {
		return nil, eris.Wrap(err, "arbiter: parse reply")
	}

	verdicts := make([]int, len(batch))
	for i := range batch {
		n := 1
		if i < len(payload.Results) {
			if v, err := payload.Results[i].Int64(); err == nil {
				n = int(v)
			}
		}
		switch {
		case n == 0:
			verdicts[i] = NoMatch
		case n >= 1 && n <= len(batch[i].Candidates):
			verdicts[i] = n - 1
		default:
			verdicts[i] = 0
		}
	}
	return verdicts, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
