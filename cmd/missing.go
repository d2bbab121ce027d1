package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahwous/pricewatch/internal/catalog"
	"github.com/mahwous/pricewatch/internal/pipeline"
)

var (
	missingCatalog     string
	missingCompetitors []string
	missingOut         string
)

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List competitor products absent from our catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("missing"); err != nil {
			return err
		}

		ours, err := catalog.Load(missingCatalog, "ours")
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}

		var comps []*catalog.Catalog
		for _, spec := range missingCompetitors {
			name, path, ok := strings.Cut(spec, "=")
			if !ok {
				return eris.Errorf("invalid --competitor %q, want name=path", spec)
			}
			comp, err := catalog.Load(path, name)
			if err != nil {
				return eris.Wrapf(err, "load competitor %s", name)
			}
			comps = append(comps, comp)
		}
		if len(comps) == 0 {
			return eris.New("at least one --competitor is required")
		}

		missing := pipeline.FindMissing(ours, comps, cfg.Matcher.MissingCutoff)

		zap.L().Info("missing products found",
			zap.Int("count", len(missing)),
			zap.Int("competitors", len(comps)),
		)

		return writeJSON(missingOut, missing)
	},
}

func init() {
	missingCmd.Flags().StringVar(&missingCatalog, "catalog", "", "our catalog file, csv or xlsx (required)")
	missingCmd.Flags().StringArrayVar(&missingCompetitors, "competitor", nil, "competitor catalog as name=path, repeatable (required)")
	missingCmd.Flags().StringVar(&missingOut, "out", "", "write the JSON report here instead of stdout")
	_ = missingCmd.MarkFlagRequired("catalog")
	rootCmd.AddCommand(missingCmd)
}
