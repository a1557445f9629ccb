package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stracejson/internal/driver"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the converted-output cache",
	}
	cmd.PersistentFlags().String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/stracejson)")

	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			if err := c.DropAll(); err != nil {
				return fmt.Errorf("failed to clean cache: %w", err)
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "removed cached output in %s\n", c.Dir())
			}
			return nil
		},
	})
	return cmd
}

func (a *app) openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	dir := a.cfg.Cache.Dir
	if f := cmd.Flags().Lookup("cache-dir"); f != nil && f.Changed {
		dir = f.Value.String()
	}
	c, err := driver.OpenDiskCache(cacheApp, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}
