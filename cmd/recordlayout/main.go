package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recordlayout",
	Short: "Render record layouts from object metadata",
	Long: `recordlayout compiles object layouts into markup, binds them to records
and renders the result as HTML, in a preview server or as terminal prompts.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(describeCmd)

	rootCmd.PersistentFlags().String("config", "recordlayout.yaml", "configuration file")
	rootCmd.PersistentFlags().StringSlice("metadata", nil, "directories holding describe and layout fixtures")
	rootCmd.PersistentFlags().StringSlice("records", nil, "directories holding record fixtures")
	rootCmd.PersistentFlags().String("openapi", "", "OpenAPI document supplying additional object describes")
	rootCmd.PersistentFlags().String("location", "", "time zone datetime fields are shown in")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
