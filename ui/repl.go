package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lepinkainen/duplex/review"
)

// LineReader reads operator input one line at a time. *readline.Instance
// implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
)

// REPL is the line based review frontend
type REPL struct {
	nav    *review.Navigator
	in     LineReader
	out    io.Writer
	DryRun bool
	Quiet  bool
}

// NewREPL creates a REPL reading commands from in and writing screens to out
func NewREPL(nav *review.Navigator, in LineReader, out io.Writer) *REPL {
	return &REPL{nav: nav, in: in, out: out}
}

// NewLineReader opens a readline editor on the terminal
func NewLineReader() (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// Run shows the current group and executes commands until every group is
// resolved or the operator quits. End of input quits.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out)
	var errMsg string

	for !r.nav.Done() {
		r.display(errMsg)
		errMsg = ""

		fmt.Fprintln(r.out)
		r.in.SetPrompt(promptColor.Sprintf("    %s / %s > ",
			humanize.Comma(int64(r.nav.Cursor()+1)), humanize.Comma(int64(r.nav.GroupCount()))))
		line, err := r.in.Readline()
		if isEndOfInput(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		res := r.nav.Dispatch(line)
		switch res.Outcome {
		case review.Failed:
			errMsg = res.Err.Error()
		case review.Quit:
			return nil
		case review.ConfirmDelete:
			fmt.Fprintln(r.out)
			ok, err := r.Confirm(res.Prompt)
			if err != nil {
				return err
			}
			if ok {
				sum := r.nav.ExecuteDelete()
				fmt.Fprint(r.out, RenderDeleteSummary(sum, r.DryRun))
			}
		}
	}

	if !r.Quiet {
		fmt.Fprintln(r.out, SuccessStyle.Render("No more duplicates found"))
	}
	return nil
}

func (r *REPL) display(errMsg string) {
	fmt.Fprint(r.out, RenderRules(r.nav.Rules()))
	fmt.Fprint(r.out, RenderGroup(r.nav.Current(), r.nav.Rules()))
	fmt.Fprint(r.out, RenderStats(r.nav.Stats()))
	if r.nav.TakeHelp() {
		fmt.Fprint(r.out, RenderHelp())
	}
	if errMsg != "" {
		fmt.Fprintf(r.out, "\n    %s\n%15s%s\n", errorColor.Sprint("Error:"), "", errMsg)
	}
}

// Confirm asks prompt until the answer is y or n. End of input counts as no.
func (r *REPL) Confirm(prompt string) (bool, error) {
	for {
		r.in.SetPrompt(prompt)
		line, err := r.in.Readline()
		if isEndOfInput(err) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		switch strings.TrimSpace(line) {
		case "y", "Y":
			return true, nil
		case "n", "N":
			return false, nil
		}
	}
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}
