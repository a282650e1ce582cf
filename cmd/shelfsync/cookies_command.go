package main

import (
	"os"

	"github.com/spf13/cobra"

	"shelfsync/internal/cookiestore"
	"shelfsync/internal/creds"
)

func newCookiesCommand(ctx *commandContext) *cobra.Command {
	var output string
	var userID string
	var profileDir string
	var dbIndex int

	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Extract Goodreads session cookies from the local Firefox profile",
		Long: `Finds the Firefox cookie database, reads the Goodreads session
cookies from a read-only snapshot, and writes them together with the
Goodreads user id to a JSON config file the export command consumes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.GoodreadsConfig
			}
			logger := ctx.logger()

			opts := cookiestore.Options{
				ProfileRoot: profileDir,
				UserID:      userID,
				Report:      logger.Infof,
			}
			if dbIndex >= 0 {
				opts.Selector = cookiestore.FixedSelector(dbIndex)
			} else {
				opts.Selector = &cookiestore.PromptSelector{In: os.Stdin, Out: cmd.ErrOrStderr()}
			}
			opts.PromptUserID = func() (string, error) {
				return promptLine(os.Stdin, cmd.ErrOrStderr(),
					"Goodreads user id (the number in your profile URL): ")
			}

			result, err := cookiestore.Extract(cmd.Context(), opts)
			if err != nil {
				return err
			}

			err = creds.SaveGoodreads(output, creds.GoodreadsConfig{
				UserID:  result.UserID,
				Cookies: result.Header,
			})
			if err != nil {
				return err
			}
			logger.Infof("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default from settings)")
	cmd.Flags().StringVar(&userID, "user-id", "", "Goodreads user id, skipping recovery from the browser session")
	cmd.Flags().StringVar(&profileDir, "profile-dir", "", "Firefox profile root to search instead of the OS default")
	cmd.Flags().IntVar(&dbIndex, "db-index", -1, "Use the Nth discovered cookie database instead of prompting")

	return cmd
}
