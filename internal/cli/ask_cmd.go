package cli

import (
	"fmt"
	"strings"

	"github.com/serenlabs/lucid/internal/plugin"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the conversational plugins a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			query := plugin.Query{Text: strings.Join(args, " ")}
			responses, failures := a.dispatcher.QueryConversational(cmd.Context(), query)
			for _, f := range failures {
				log.Warn().Str("plugin", f.PluginID).Err(f.Err).Msg("responder dropped")
			}

			if len(responses) == 0 {
				fmt.Println("No conversational plugins are loaded.")
				return nil
			}
			for _, resp := range responses {
				fmt.Println(resp.Text)
				if len(resp.Suggestions) > 0 {
					fmt.Println("\nTry asking:")
					for _, s := range resp.Suggestions {
						fmt.Printf("  - %s\n", s)
					}
				}
			}
			return nil
		},
	}
}
