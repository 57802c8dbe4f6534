package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/cache"
	"github.com/matzehuels/stackmerge/pkg/config"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the exported image cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}

			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", c.cacheLocation())
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
			fmt.Println(c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes where artifacts are stored: the Redis URL when one
// is configured, otherwise the cache directory.
func (c *CLI) cacheLocation() string {
	if c.cfg.Cache.RedisURL != "" {
		return c.cfg.Cache.RedisURL
	}
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir
	}
	dir, err := config.CacheDir()
	if err != nil {
		return "(unavailable)"
	}
	return dir
}
