package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/quantmind-br/smashy/internal/cache"
	"github.com/quantmind-br/smashy/internal/config"
	"github.com/quantmind-br/smashy/internal/utils"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the skeleton cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show skeleton cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		stats, err := c.Stats()
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Directory: %s\n", stats.Directory)
		fmt.Fprintf(out, "Skeletons: %d\n", stats.Skeletons)
		fmt.Fprintf(out, "LSM size:  %s\n", humanize.IBytes(uint64(stats.LSMBytes)))
		fmt.Fprintf(out, "Vlog size: %s\n", humanize.IBytes(uint64(stats.VLogBytes)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached skeleton",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Len()
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached skeletons\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openCache opens the configured cache directory whether or not caching
// is enabled for runs
func openCache() (*cache.BadgerCache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c, err := cache.NewBadgerCache(cache.Options{
		Directory: utils.ExpandPath(cfg.Cache.Directory),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}
