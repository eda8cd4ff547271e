package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "momochat",
	Short: "Customer-support chat widget for the MTN MoMo virtual assistant",
	Long: `MoMoChat serves the MoMo assistant landing and chat pages, persists
conversations locally, and relays chat requests to the remote
chat-completion backend. It also exposes a forwarding proxy so browsers
never talk to the backend directly.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".momochat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
