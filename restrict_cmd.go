package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nurtra/nurtra/restrict"
)

var (
	restrictApps       []string
	restrictCategories []string
	restrictDomains    []string
)

var restrictCmd = &cobra.Command{
	Use:   "restrict",
	Short: "Configure the apps locked during a craving session",
}

var restrictSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the selection of apps to lock",
	Example: "nurtra restrict set --apps instagram,tiktok --categories social\n" +
		"nurtra restrict set --domains doordash.com",
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		sel := restrict.Selection{
			Applications: restrictApps,
			Categories:   restrictCategories,
			Domains:      restrictDomains,
		}
		if err := a.store.Restriction().SaveSelection(sel); err != nil {
			return err
		}
		if sel.IsEmpty() {
			fmt.Println("Selection cleared; sessions will not lock anything.")
			return nil
		}
		fmt.Printf("Saved %d targets to lock during sessions.\n", sel.Count())
		return nil
	},
}

var restrictShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved selection and lock state",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		sel, ok, err := a.store.Restriction().LoadSelection()
		if err != nil {
			return err
		}
		if !ok || sel.IsEmpty() {
			fmt.Println("No apps selected.")
			return nil
		}
		if len(sel.Applications) > 0 {
			fmt.Println("Apps:      ", strings.Join(sel.Applications, ", "))
		}
		if len(sel.Categories) > 0 {
			fmt.Println("Categories:", strings.Join(sel.Categories, ", "))
		}
		if len(sel.Domains) > 0 {
			fmt.Println("Domains:   ", strings.Join(sel.Domains, ", "))
		}

		locked, err := a.store.Restriction().Locked()
		if err != nil {
			return err
		}
		if locked {
			fmt.Println("\nCurrently locked.")
		}
		return nil
	},
}

func init() {
	restrictSetCmd.Flags().StringSliceVar(&restrictApps, "apps", nil, "application identifiers, comma separated")
	restrictSetCmd.Flags().StringSliceVar(&restrictCategories, "categories", nil, "category identifiers, comma separated")
	restrictSetCmd.Flags().StringSliceVar(&restrictDomains, "domains", nil, "web domains, comma separated")

	restrictCmd.AddCommand(restrictSetCmd, restrictShowCmd)
}
