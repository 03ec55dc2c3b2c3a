package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/teamtree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts, artifacts and API responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, _, err := cache.Open(ctx, c.Config.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			var count int
			var size int64
			if fc, ok := cc.(*cache.FileCache); ok {
				count, size, _ = fc.Size()
			}

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printWarning("The %s cache backend cannot be cleared", c.Config.Cache.Backend)
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if count > 0 {
				printSuccess("Cleared %d cached entries (%s)", count, humanize.Bytes(uint64(size)))
			} else {
				printSuccess("Cache cleared")
			}
			printDetail("Backend: %s", backendName(c.Config.Cache.Backend))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch backendName(c.Config.Cache.Backend) {
			case cache.BackendSQLite:
				fmt.Println(c.Config.Cache.SQLitePath)
			case cache.BackendRedis:
				fmt.Println(c.Config.Cache.RedisAddr)
			case cache.BackendMongo:
				fmt.Println(c.Config.Redacted().Cache.MongoURI)
			case cache.BackendNone:
				printInfo("Caching is disabled")
			default:
				fmt.Println(c.Config.Cache.Dir)
			}
			return nil
		},
	}
}

func backendName(b string) string {
	if b == "" {
		return cache.BackendFile
	}
	return b
}
