package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelfsync/internal/creds"
	"shelfsync/internal/libby"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var bearerToken string
	var cardID string
	var output string
	var useKeyring bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a Libby bearer token and pick a library card",
		Long: `Verifies a Libby bearer token against the account's library cards
and saves the login artifact. Grab the token from libbyapp.com: open the
browser dev tools, Application > Local Storage, and copy the value of
the "dewey:identity" JWT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.LibbyConfig
			}
			logger := ctx.logger()

			token := bearerToken
			if token == "" {
				token, err = promptSecret(cmd.ErrOrStderr(), "Libby bearer token: ")
				if err != nil {
					return err
				}
			}
			if token == "" {
				return fmt.Errorf("no bearer token given")
			}

			client := libby.NewClient(creds.LibbyConfig{BearerToken: token})
			cards, err := client.Cards(cmd.Context())
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				return fmt.Errorf("the token is valid but the account has no library cards")
			}

			rows := make([][]string, 0, len(cards))
			for _, card := range cards {
				rows = append(rows, []string{card.ID, card.Name, card.AdvantageKey})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"card id", "name", "library"}, rows))

			chosen := cardID
			if chosen == "" {
				if len(cards) > 1 {
					return fmt.Errorf("account has %d cards; rerun with --card-id", len(cards))
				}
				chosen = cards[0].ID
			}
			found := false
			for _, card := range cards {
				if card.ID == chosen {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %s", libby.ErrCardNotFound, chosen)
			}

			save := creds.LibbyConfig{CardID: chosen}
			if useKeyring {
				if err := creds.StoreTokenInKeyring(token); err != nil {
					return fmt.Errorf("store token in keyring: %w", err)
				}
				logger.Info("Stored the bearer token in the OS keyring")
			} else {
				save.BearerToken = token
			}
			if err := creds.SaveLibby(output, save); err != nil {
				return err
			}
			logger.Infof("Wrote %s (card %s)", output, chosen)
			return nil
		},
	}

	cmd.Flags().StringVar(&bearerToken, "bearer-token", "", "Libby bearer token (prompted for when omitted)")
	cmd.Flags().StringVar(&cardID, "card-id", "", "Library card to use (required when the account has several)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default from settings)")
	cmd.Flags().BoolVar(&useKeyring, "keyring", false, "Keep the token in the OS keyring instead of the file")

	return cmd
}
