package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type moveOutput struct {
	Action string `json:"action"`
	UUID   string `json:"uuid,omitempty"`
}

// reportMove prints the outcome of a command that started a move.
func reportMove(cmd *cobra.Command, ctx *commandContext, action, uuid string) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, moveOutput{Action: action, UUID: uuid})
	}
	out := cmd.OutOrStdout()
	if uuid == "" {
		fmt.Fprintln(out, action)
		return nil
	}
	fmt.Fprintf(out, "%s (move %s)\n", action, uuid)
	return nil
}

func formatDegrees(v float64) string {
	return fmt.Sprintf("%.1f°", v)
}
