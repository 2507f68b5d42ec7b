package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teslashibe/reachy-blocks/pkg/daemon"
	"github.com/teslashibe/reachy-blocks/pkg/recorded"
)

func newMovesCommand(ctx *commandContext) *cobra.Command {
	movesCmd := &cobra.Command{
		Use:   "moves",
		Short: "List, play and stop recorded moves",
	}

	movesCmd.AddCommand(newMovesListCommand(ctx))
	movesCmd.AddCommand(newMovesPlayCommand(ctx))
	movesCmd.AddCommand(newMovesRunningCommand(ctx))
	movesCmd.AddCommand(newMovesStopCommand(ctx))

	return movesCmd
}

type movesListOutput struct {
	Dataset    string              `json:"dataset"`
	Moves      []string            `json:"moves"`
	Categories map[string][]string `json:"categories,omitempty"`
}

func newMovesListCommand(ctx *commandContext) *cobra.Command {
	var group bool
	var search string

	cmd := &cobra.Command{
		Use:   "list [DATASET]",
		Short: "List the moves of a recorded dataset",
		Long: "List the moves of a recorded dataset. DATASET defaults to " +
			recorded.EmotionsDataset + "; " + recorded.DancesDataset + " holds the dances.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := recorded.EmotionsDataset
			if len(args) == 1 {
				dataset = strings.TrimSpace(args[0])
			}

			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			cat, err := recorded.Load(cmd.Context(), client, dataset)
			if err != nil {
				return err
			}

			names := cat.Names()
			if search != "" {
				names = cat.Search(search)
			}

			if ctx.jsonOutput() {
				out := movesListOutput{Dataset: cat.Dataset(), Moves: names}
				if group {
					out.Categories = recorded.New(dataset, names).Categories()
				}
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintf(w, "No moves in %s\n", cat.Dataset())
				return nil
			}
			if !group {
				for _, name := range names {
					fmt.Fprintln(w, name)
				}
				return nil
			}

			categories := recorded.New(dataset, names).Categories()
			keys := make([]string, 0, len(categories))
			for k := range categories {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k, strconv.Itoa(len(categories[k])), strings.Join(categories[k], ", ")})
			}
			fmt.Fprintln(w, renderTable([]string{"Category", "Count", "Moves"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&group, "group", "g", false, "Group moves by category")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show moves whose name contains this text")
	return cmd
}

func newMovesPlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play DATASET MOVE",
		Short: "Play a move from a recorded dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := ctx.extension()
			if err != nil {
				return err
			}
			if err := ext.PlayRecordedMove(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return reportMove(cmd, ctx, "Playing "+args[1], ext.CurrentMove())
		},
	}
}

func newMovesRunningCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "running",
		Short: "Show how many moves are running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			n, err := client.RunningMoves(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"running": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d move(s) running\n", n)
			return nil
		},
	}
}

func newMovesStopCommand(ctx *commandContext) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "stop --uuid UUID",
		Short: "Stop a running move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := uuid.Parse(strings.TrimSpace(id))
			if err != nil {
				return fmt.Errorf("invalid --uuid %q: %w", id, err)
			}

			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			if err := client.StopMove(cmd.Context(), daemon.MoveID(parsed.String())); err != nil {
				return err
			}
			return reportMove(cmd, ctx, "Move stopped", parsed.String())
		},
	}

	cmd.Flags().StringVar(&id, "uuid", "", "Move uuid printed when the move started")
	_ = cmd.MarkFlagRequired("uuid")
	return cmd
}
