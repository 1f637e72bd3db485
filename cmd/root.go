package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "schedbot",
	Short: "Conversational meeting scheduling assistant",
	Long: `Schedbot is a conversational scheduling assistant. It holds a short
dialogue to collect a meeting duration and time preference, resolves
natural-language time expressions ("tomorrow afternoon", "before my
flight"), checks calendar availability, and books the chosen slot.
It runs as an HTTP/websocket server or as an interactive terminal chat.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".schedbot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
