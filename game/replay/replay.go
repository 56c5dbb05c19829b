// Package replay runs recorded command words against a level and reports
// each step. It also carries quick static heuristics about a level layout.
package replay

import (
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
)

// Step is the outcome of one replayed command word
type Step struct {
	Index   int           `json:"index"`
	Command string        `json:"command"`
	Changed bool          `json:"changed"`
	Pushed  bool          `json:"pushed"`
	Player  engine.Player `json:"player"`
	Status  engine.Status `json:"status"`
}

// Report is the full result of a replay
type Report struct {
	Level    string        `json:"level"`
	Steps    []Step        `json:"steps"`
	Final    *engine.State `json:"final"`
	Finished bool          `json:"finished"`
	Moves    int           `json:"moves"`
	Pushes   int           `json:"pushes"`
}

// SplitWords turns arguments like "east,north up" into single command words.
func SplitWords(args []string) []string {
	var words []string
	for _, arg := range args {
		for _, w := range strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			words = append(words, w)
		}
	}
	return words
}

// Run sets up level and applies words in order. Every word is applied even
// after the level is finished, so the report mirrors what a client sending
// the same words would see. An unknown word aborts the replay.
func Run(level *engine.LevelConfig, words []string) (*Report, error) {
	e, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Level: level.Name,
		Steps: make([]Step, 0, len(words)),
	}

	for i, word := range words {
		if _, err := e.Execute(word); err != nil {
			return report, fmt.Errorf("command %d: %w", i+1, err)
		}
		entry := e.GetLastEntry()
		step := Step{
			Index:   i + 1,
			Command: string(entry.Command),
			Changed: entry.Changed,
			Pushed:  entry.Pushed,
			Player:  entry.To,
			Status:  entry.Status,
		}
		if step.Changed && entry.Command != engine.CmdUndo && step.Player.Position != entry.From.Position {
			report.Moves++
			if step.Pushed {
				report.Pushes++
			}
		}
		report.Steps = append(report.Steps, step)
	}

	report.Final = e.GetState()
	report.Finished = e.IsFinished()
	return report, nil
}

// Write prints the report in a compact human-readable form.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "Level: %s\n", r.Level)
	for _, s := range r.Steps {
		mark := "✗"
		if s.Changed {
			mark = "✓"
		}
		push := ""
		if s.Pushed {
			push = " push"
		}
		fmt.Fprintf(w, "%3d. %-5s %s (%d,%d) facing %s%s\n",
			s.Index, s.Command, mark, s.Player.Row, s.Player.Col, s.Player.Facing, push)
	}

	if r.Final != nil {
		fmt.Fprintln(w)
		for _, line := range engine.Render(r.Final) {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintf(w, "\nBoxes on goals: %d/%d, moves: %d, pushes: %d\n",
			engine.BoxesOnGoals(r.Final), len(r.Final.Boxes), r.Moves, r.Pushes)
	}

	if r.Finished {
		fmt.Fprintln(w, "✅ Level complete")
	} else {
		fmt.Fprintln(w, "⚠️  Level not complete")
	}
}
