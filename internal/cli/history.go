package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived graph snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.requireArchive(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			infos, err := a.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No snapshots archived")
				return nil
			}
			t := newTable("Snapshot", "Created", "Graph", "Vertices", "Edges")
			for _, info := range infos {
				hash := info.GraphHash
				if len(hash) > 12 {
					hash = hash[:12]
				}
				t.Row(info.ID, info.CreatedAt.Local().Format(time.DateTime), hash,
					strconv.Itoa(info.Vertices), strconv.Itoa(info.Edges))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of snapshots to list")

	return cmd
}
