package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "link <boardID>",
		Short: "Print the shareable join link of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, closer, err := c.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closer()

			link, err := app.GenerateBoardLink(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the demo accounts into an empty store",
		Long: `Install the demo admin and user accounts together with their shared board.
A store that already holds accounts is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, gw, closer, err := c.app(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer closer()

			if err := gw.LastError(); err != nil {
				return fmt.Errorf("seed not persisted: %w", err)
			}
			snap := app.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%d users, %d boards\n", len(snap.Users), len(snap.Boards))
			return nil
		},
	}
}

func newSweepCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Warn assignees about near and passed deadlines once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, gw, closer, err := c.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closer()

			created := app.SweepDeadlines(cmd.Context())
			if err := gw.LastError(); err != nil {
				return fmt.Errorf("sweep not persisted: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d notifications created\n", created)
			return nil
		},
	}
}
