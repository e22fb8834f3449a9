package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/model"
)

func newSnapshotCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Read or replace the stored snapshot",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored snapshot as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				snap, err := c.loadSnapshot(cmd)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			},
		},
		&cobra.Command{
			Use:   "export <file>",
			Short: "Write the stored snapshot to a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, err := c.loadSnapshot(cmd)
				if err != nil {
					return err
				}
				payload, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(args[0], payload, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d users, %d boards, %d tasks to %s\n",
					len(snap.Users), len(snap.Boards), len(snap.Tasks), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Replace the stored snapshot with an empty one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				gw, closer, err := c.gateway(cmd.Context())
				if err != nil {
					return err
				}
				defer closer()

				gw.Save(cmd.Context(), model.NewSnapshot())
				if err := gw.LastError(); err != nil {
					return fmt.Errorf("reset snapshot: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "snapshot reset")
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) loadSnapshot(cmd *cobra.Command) (*model.Snapshot, error) {
	gw, closer, err := c.gateway(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closer()
	return gw.Load(cmd.Context())
}
