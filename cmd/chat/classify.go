package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/emotions"
)

func classifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify a single message and print the normalized result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			text, err := emotions.Validate(strings.Join(args, " "))
			if err != nil {
				return err
			}

			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.close()

			raw, err := s.domain.Classifier.Classify(ctx, classifier.NewRequest(text), s.identity.Token)
			if err != nil {
				return err
			}

			result, _, err := emotions.Normalize(raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
