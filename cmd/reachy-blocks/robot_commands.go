package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/reachy-blocks/pkg/blocks"
)

const defaultMoveDuration = 1.0

func newRobotCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newWakeCommand(ctx),
		newSleepCommand(ctx),
		newHeadCommand(ctx),
		newAntennasCommand(ctx),
		newStateCommand(ctx),
		newPingCommand(ctx),
	}
}

func newWakeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "wake",
		Short: "Play the wake-up move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := ctx.extension()
			if err != nil {
				return err
			}
			if err := ext.WakeUp(cmd.Context()); err != nil {
				return err
			}
			return reportMove(cmd, ctx, "Robot waking up", ext.CurrentMove())
		},
	}
}

func newSleepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sleep",
		Short: "Play the go-to-sleep move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := ctx.extension()
			if err != nil {
				return err
			}
			if err := ext.GotoSleep(cmd.Context()); err != nil {
				return err
			}
			return reportMove(cmd, ctx, "Robot going to sleep", ext.CurrentMove())
		},
	}
}

func newHeadCommand(ctx *commandContext) *cobra.Command {
	var pitch, yaw, roll, duration float64
	var reset bool

	directions := make([]string, 0, len(blocks.HeadDirections()))
	for _, d := range blocks.HeadDirections() {
		directions = append(directions, string(d))
	}

	cmd := &cobra.Command{
		Use:   "head [DIRECTION]",
		Short: "Move the head to a preset direction or custom angles",
		Long: "Move the head to a preset direction (" + strings.Join(directions, ", ") + ")\n" +
			"or to custom angles in degrees with --pitch, --yaw and --roll.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: directions,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom := cmd.Flags().Changed("pitch") || cmd.Flags().Changed("yaw") || cmd.Flags().Changed("roll")
			switch {
			case reset && (len(args) > 0 || custom):
				return fmt.Errorf("--reset cannot be combined with a direction or angles")
			case len(args) > 0 && custom:
				return fmt.Errorf("give either a direction or custom angles, not both")
			case len(args) == 0 && !custom && !reset:
				return fmt.Errorf("give a direction (%s), --pitch/--yaw/--roll, or --reset", strings.Join(directions, ", "))
			}

			ext, err := ctx.extension()
			if err != nil {
				return err
			}

			switch {
			case reset:
				err = ext.ResetHead(cmd.Context())
			case custom:
				err = ext.MoveHeadCustom(cmd.Context(), pitch, yaw, roll, duration)
			default:
				err = ext.MoveHeadDirection(cmd.Context(), args[0], duration)
			}
			if err != nil {
				return err
			}
			return reportMove(cmd, ctx, "Head moving", ext.CurrentMove())
		},
	}

	cmd.Flags().Float64Var(&pitch, "pitch", 0, "Head pitch in degrees")
	cmd.Flags().Float64Var(&yaw, "yaw", 0, "Head yaw in degrees")
	cmd.Flags().Float64Var(&roll, "roll", 0, "Head roll in degrees")
	cmd.Flags().Float64VarP(&duration, "duration", "d", defaultMoveDuration, "Move duration in seconds (minimum 0.1)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Center the head")
	return cmd
}

func newAntennasCommand(ctx *commandContext) *cobra.Command {
	var left, right, both, duration float64

	cmd := &cobra.Command{
		Use:   "antennas",
		Short: "Move the antennas to angles in degrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useBoth := cmd.Flags().Changed("both")
			if useBoth && (cmd.Flags().Changed("left") || cmd.Flags().Changed("right")) {
				return fmt.Errorf("--both cannot be combined with --left or --right")
			}

			ext, err := ctx.extension()
			if err != nil {
				return err
			}
			if useBoth {
				err = ext.MoveAntennasBoth(cmd.Context(), both, duration)
			} else {
				err = ext.MoveAntennas(cmd.Context(), left, right, duration)
			}
			if err != nil {
				return err
			}
			return reportMove(cmd, ctx, "Antennas moving", ext.CurrentMove())
		},
	}

	cmd.Flags().Float64Var(&left, "left", 0, "Left antenna angle in degrees")
	cmd.Flags().Float64Var(&right, "right", 0, "Right antenna angle in degrees")
	cmd.Flags().Float64Var(&both, "both", 0, "Angle for both antennas in degrees")
	cmd.Flags().Float64VarP(&duration, "duration", "d", defaultMoveDuration, "Move duration in seconds (minimum 0.1)")
	return cmd
}

func newStateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show head, antenna and body angles in degrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := ctx.extension()
			if err != nil {
				return err
			}
			snap, err := ext.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, snap)
			}

			rows := [][]string{
				{"Head pitch", formatDegrees(snap.HeadPitch)},
				{"Head yaw", formatDegrees(snap.HeadYaw)},
				{"Head roll", formatDegrees(snap.HeadRoll)},
				{"Left antenna", formatDegrees(snap.LeftAntenna)},
				{"Right antenna", formatDegrees(snap.RightAntenna)},
				{"Body yaw", formatDegrees(snap.BodyYaw)},
				{"Motor mode", snap.MotorMode},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Joint", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

type pingOutput struct {
	Connected   bool   `json:"connected"`
	DaemonState string `json:"daemon_state"`
	APIURL      string `json:"api_url"`
}

func newPingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check whether the daemon answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			ext, _ := ctx.extension()

			out := pingOutput{
				Connected:   ext.IsDaemonConnected(cmd.Context()),
				DaemonState: blocks.UnknownValue,
				APIURL:      client.BaseURL(),
			}
			if out.Connected {
				out.DaemonState = ext.DaemonState(cmd.Context())
			}

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else if out.Connected {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon at %s is %s\n", out.APIURL, out.DaemonState)
			}
			if !out.Connected {
				return fmt.Errorf("daemon at %s is not reachable", out.APIURL)
			}
			return nil
		},
	}
}

func newMotorsCommand(ctx *commandContext) *cobra.Command {
	motorsCmd := &cobra.Command{
		Use:   "motors",
		Short: "Inspect or change the motor control mode",
	}

	modes := make([]string, 0, len(blocks.MotorModes()))
	for _, m := range blocks.MotorModes() {
		modes = append(modes, string(m))
	}

	motorsCmd.AddCommand(&cobra.Command{
		Use:       "mode MODE",
		Short:     "Set the motor mode (" + strings.Join(modes, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: modes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := ctx.extension()
			if err != nil {
				return err
			}
			if err := ext.SetMotorMode(cmd.Context(), args[0]); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"mode": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Motors set to %s\n", args[0])
			return nil
		},
	})

	motorsCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current motor mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.daemonClient()
			if err != nil {
				return err
			}
			status, err := client.MotorStatus(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Motors: %s\n", status.Mode)
			return nil
		},
	})

	return motorsCmd
}
