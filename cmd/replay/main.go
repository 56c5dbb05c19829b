// Command replay applies a list of command words to a level file and prints
// every step and the final board. With --analyze it also prints static
// heuristics about the layout: reachability of boxes and goals from the
// player, and dead corners where a pushed box can never leave.
//
// The exit status is 0 when the level ends finished and 1 otherwise.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/sokoban/game/config"
	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"github.com/wricardo/mcp-training/sokoban/game/replay"
)

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "replay command words against a level",
		ArgsUsage: "[command words, space or comma separated]",
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "level file (.json, .yaml or .yml); the built-in level when empty",
			},
			&cli.BoolFlag{
				Name:  "analyze",
				Usage: "print layout heuristics before replaying",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the replay report as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(out, cmd.String("level"), cmd.Bool("analyze"), cmd.Bool("json"), cmd.Args().Slice())
		},
	}
}

func run(out io.Writer, levelPath string, analyze, asJSON bool, args []string) error {
	level := engine.DefaultLevel()
	if levelPath != "" {
		loaded, err := config.LoadLevelFile(levelPath)
		if err != nil {
			return fmt.Errorf("load %s: %w", levelPath, err)
		}
		level = loaded
	}

	if analyze {
		a, err := replay.Analyze(level)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "=== Analyzing %s ===\n", level.Name)
		a.Write(out)
		fmt.Fprintln(out)
	}

	report, err := replay.Run(level, replay.SplitWords(args))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		report.Write(out)
	}

	if !report.Finished {
		return cli.Exit("", 1)
	}
	return nil
}
