package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man pages",
	Args:   cobra.NoArgs,
	Hidden: true, // only used to generate the man page during builds
	RunE: func(*cobra.Command, []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return err
		}

		fmt.Println(manPage.Build(roff.NewDocument()))
		return nil
	},
}
