package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackinv/pkg/cache"
	"github.com/matzehuels/stackinv/pkg/config"
	"github.com/matzehuels/stackinv/pkg/errors"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the graph and report cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graphs and reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.config.Cache.Backend == config.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}
			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.config.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			c.printCacheLocation()
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where cache entries are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printCacheLocation()
			return nil
		},
	}
}

func (c *CLI) printCacheLocation() {
	cfg := c.config.Cache
	printKeyValue("Backend", cfg.Backend)
	switch cfg.Backend {
	case config.CacheRedis:
		printKeyValue("Address", cfg.Redis.Addr)
		printKeyValue("Prefix", cfg.Redis.Prefix)
	case config.CacheFile:
		dir, err := c.cacheDir()
		if err != nil {
			printWarning("No cache directory: %v", err)
			return
		}
		printKeyValue("Directory", dir)
	}
}
