// Command chat runs the emotion-aware conversation pipeline in the terminal.
// Each line typed is submitted as a user message; the bot reply and the
// classified emotion are printed back.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	embedded bool
	token    string
	baseURL  string
	verbose  bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the empath wellness assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&opts.embedded, "embedded", false, "classify in-process instead of calling the backend")
	flags.StringVar(&opts.token, "token", os.Getenv("EMPATH_TOKEN"), "bearer token for the backend")
	flags.StringVar(&opts.baseURL, "base-url", "", "backend base URL (overrides configuration)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(classifyCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
