package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahwous/pricewatch/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the arbiter verdict cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show verdict cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("cache"); err != nil {
			return err
		}

		st, err := store.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return eris.Wrap(err, "open cache store")
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "migrate cache store")
		}

		stats, err := st.CacheStats(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "read cache stats")
		}
		return writeJSON("", stats)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("cache"); err != nil {
			return err
		}

		st, err := store.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return eris.Wrap(err, "open cache store")
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "migrate cache store")
		}

		if err := st.ClearVerdicts(cmd.Context()); err != nil {
			return eris.Wrap(err, "clear verdicts")
		}
		zap.L().Info("verdict cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
