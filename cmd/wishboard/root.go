package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wishboard",
	Short: "소원 질주, a seasonal wish board for the Year of the Red Horse",
	Long: `wishboard runs the 2026 wish-board client engine: a live, ranked
view of geolocated wishes with cheers, comments and AI fortunes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
}
