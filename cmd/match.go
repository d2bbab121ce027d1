package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mahwous/pricewatch/internal/arbiter"
	"github.com/mahwous/pricewatch/internal/catalog"
	"github.com/mahwous/pricewatch/internal/index"
	"github.com/mahwous/pricewatch/internal/pipeline"
	"github.com/mahwous/pricewatch/internal/store"
	anthropicpkg "github.com/mahwous/pricewatch/pkg/anthropic"
)

var (
	matchCatalog     string
	matchCompetitors []string
	matchOut         string
	matchNoArbiter   bool
)

// matchReport is the top-level JSON document the match command emits.
type matchReport struct {
	RunID   string            `json:"run_id"`
	Summary store.Summary     `json:"summary"`
	Results []pipeline.Result `json:"results"`
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match our catalog against competitor price lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mode := "match"
		if matchNoArbiter {
			// No API key needed without escalation.
			mode = "missing"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		ours, err := catalog.Load(matchCatalog, "ours")
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}

		indexes := make([]*index.Index, len(matchCompetitors))
		names := make([]string, len(matchCompetitors))
		paths := make([]string, len(matchCompetitors))
		for i, spec := range matchCompetitors {
			name, path, ok := strings.Cut(spec, "=")
			if !ok {
				return eris.Errorf("invalid --competitor %q, want name=path", spec)
			}
			names[i] = name
			paths[i] = path
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := range matchCompetitors {
			name, path := names[i], paths[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				comp, err := catalog.Load(path, name)
				if err != nil {
					return eris.Wrapf(err, "load competitor %s", name)
				}
				indexes[i] = index.Build(comp)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if len(indexes) == 0 {
			return eris.New("at least one --competitor is required")
		}

		st, err := store.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return eris.Wrap(err, "open cache store")
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate cache store")
		}

		var resolver arbiter.Resolver
		if !matchNoArbiter {
			api := anthropicpkg.NewClient(cfg.Arbiter.Key)
			resolver = arbiter.New(api, st, cfg.Arbiter)
		}

		run, err := st.CreateRun(ctx, strings.Join(names, ","))
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		p := pipeline.New(cfg.Matcher, cfg.Arbiter.BatchSize, indexes, resolver)
		results, err := p.Run(ctx, ours)
		if err != nil {
			_ = st.FinishRun(ctx, run.ID, store.RunStatusFailed, nil)
			return eris.Wrap(err, "pipeline run")
		}

		items, matched, escalated, review, missing := pipeline.Summarize(results)
		summary := store.Summary{
			Items:       items,
			Matched:     matched,
			Escalated:   escalated,
			NeedsReview: review,
			Missing:     missing,
		}
		if err := st.FinishRun(ctx, run.ID, store.RunStatusCompleted, &summary); err != nil {
			return eris.Wrap(err, "finish run")
		}

		zap.L().Info("match complete",
			zap.String("run_id", run.ID),
			zap.Int("items", items),
			zap.Int("matched", matched),
			zap.Int("escalated", escalated),
			zap.Int("needs_review", review),
			zap.Int("missing", missing),
		)

		return writeJSON(matchOut, matchReport{
			RunID:   run.ID,
			Summary: summary,
			Results: results,
		})
	},
}

// writeJSON encodes v indented to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	matchCmd.Flags().StringVar(&matchCatalog, "catalog", "", "our catalog file, csv or xlsx (required)")
	matchCmd.Flags().StringArrayVar(&matchCompetitors, "competitor", nil, "competitor catalog as name=path, repeatable (required)")
	matchCmd.Flags().StringVar(&matchOut, "out", "", "write the JSON report here instead of stdout")
	matchCmd.Flags().BoolVar(&matchNoArbiter, "no-arbiter", false, "skip Claude escalation, keep top fuzzy candidates")
	_ = matchCmd.MarkFlagRequired("catalog")
	rootCmd.AddCommand(matchCmd)
}
