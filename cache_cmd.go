package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the synthesized speech cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and size",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		count, size, err := a.cache.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("%d cached clips, %s on disk\n", count, humanize.Bytes(uint64(size)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached clip",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.cache.Clear(); err != nil {
			return err
		}
		fmt.Println("Speech cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
