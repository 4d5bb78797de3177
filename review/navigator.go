// Package review drives the interactive duplicate review session.
//
// Navigator is a frontend independent state machine: it keeps a cursor into
// the ordered groups, turns operator command lines into rule and cursor
// changes, and hands deletion to an Executor once the operator confirmed it.
// The ui package owns every prompt and screen.
package review

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/rules"
)

var (
	ErrLastGroup       = errors.New("already at the last group")
	ErrFirstGroup      = errors.New("already at the first group")
	ErrNothingToDelete = errors.New("nothing to delete yet")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingIndex    = errors.New("missing index argument")
	ErrInvalidIndex    = errors.New("invalid index")
	ErrFileIndex       = errors.New("file index out of range")
)

// Outcome tells the frontend what to do after a command
type Outcome int

const (
	// Continue redisplays the current group
	Continue Outcome = iota
	// Failed redisplays the current group with Result.Err as a one-line error
	Failed
	// ConfirmDelete asks the operator Result.Prompt and calls ExecuteDelete on yes
	ConfirmDelete
	// Quit ends the session without deleting anything
	Quit
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Failed:
		return "failed"
	case ConfirmDelete:
		return "confirm-delete"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the outcome of one dispatched command
type Result struct {
	Outcome Outcome
	Err     error
	Prompt  string
}

func failed(err error) Result {
	return Result{Outcome: Failed, Err: err}
}

// Executor performs the deletion pass. *dupes.Deleter implements it.
type Executor interface {
	Delete(c *dupes.Collection, m dupes.Matcher) dupes.DeleteSummary
}

// Navigator is the review state machine
type Navigator struct {
	groups *dupes.Collection
	rules  *rules.Set
	exec   Executor

	order  []dupes.Key
	cursor int
	help   bool
	done   bool
}

// New creates a navigator positioned at the first group. The collection and
// rule set stay owned by the caller; the navigator mutates both.
func New(groups *dupes.Collection, rs *rules.Set, exec Executor) *Navigator {
	n := &Navigator{
		groups: groups,
		rules:  rs,
		exec:   exec,
		help:   true,
	}
	n.Refresh()
	return n
}

// Refresh prunes the collection, recomputes the group order and clamps the
// cursor. It returns false, and the navigator is done, when no group is left.
func (n *Navigator) Refresh() bool {
	n.groups.Prune()
	n.order = n.groups.Order()
	if len(n.order) == 0 {
		n.cursor = 0
		n.done = true
		return false
	}
	n.cursor = min(max(n.cursor, 0), len(n.order)-1)
	return true
}

// Done reports whether every group has been resolved
func (n *Navigator) Done() bool {
	return n.done
}

// Current returns the group under the cursor, or nil when done
func (n *Navigator) Current() *dupes.Group {
	if n.done {
		return nil
	}
	g, _ := n.groups.Get(n.order[n.cursor])
	return g
}

// Cursor returns the 0-based index of the current group
func (n *Navigator) Cursor() int {
	return n.cursor
}

// GroupCount returns the number of groups in the current order
func (n *Navigator) GroupCount() int {
	return len(n.order)
}

// Stats returns the totals over every group with the current rules
func (n *Navigator) Stats() dupes.Stats {
	return dupes.TotalStats(n.groups, n.rules)
}

// Rules returns the rule set the navigator edits
func (n *Navigator) Rules() *rules.Set {
	return n.rules
}

// TakeHelp reports whether help should be shown, and resets the request
func (n *Navigator) TakeHelp() bool {
	h := n.help
	n.help = false
	return h
}

// Dispatch runs one operator command line. A failed command leaves the
// cursor, the rules and the groups as they were.
func (n *Navigator) Dispatch(line string) Result {
	cmd := ParseCommand(line)
	if cmd.Name == "quit" || cmd.Name == "exit" {
		return Result{Outcome: Quit}
	}
	if n.done {
		return Result{Outcome: Quit}
	}

	switch cmd.Name {
	case "", "n", "next":
		if n.cursor >= len(n.order)-1 {
			return failed(ErrLastGroup)
		}
		n.cursor++
	case "p", "previous":
		if n.cursor == 0 {
			return failed(ErrFirstGroup)
		}
		n.cursor--
	case "f", "first":
		if n.cursor == 0 {
			return failed(ErrFirstGroup)
		}
		n.cursor = 0
	case "l", "last":
		if n.cursor >= len(n.order)-1 {
			return failed(ErrLastGroup)
		}
		n.cursor = len(n.order) - 1
	case "h", "help", "?":
		n.help = true
	case "d", "remove":
		idx, err := parseIndex(cmd.Arg)
		if err != nil {
			return failed(err)
		}
		if err := n.rules.Remove(idx); err != nil {
			return failed(err)
		}
	case "delete":
		stats := n.Stats()
		if stats.MarkedBytes == 0 {
			return failed(ErrNothingToDelete)
		}
		return Result{Outcome: ConfirmDelete, Prompt: DeletePrompt(stats)}
	default:
		return n.addRule(cmd)
	}
	return Result{Outcome: Continue}
}

// addRule handles input that is not a command word: a file index of the
// current group becomes a path rule, anything longer than one character
// becomes a pattern rule.
func (n *Navigator) addRule(cmd Command) Result {
	if idx, err := strconv.Atoi(cmd.Name); err == nil {
		g := n.Current()
		if idx < 1 || idx > g.Len() {
			return failed(fmt.Errorf("%w: index must be between 1 and %d", ErrFileIndex, g.Len()))
		}
		if err := n.rules.AddPath(g.Files()[idx-1].Path); err != nil {
			return failed(err)
		}
		return Result{Outcome: Continue}
	}

	if utf8.RuneCountInString(cmd.Line) >= 2 {
		if err := n.rules.AddPattern(cmd.Line); err != nil {
			return failed(err)
		}
		return Result{Outcome: Continue}
	}

	n.help = true
	return failed(fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Line))
}

// ExecuteDelete deletes every marked file, clears the rules and refreshes
// the group order
func (n *Navigator) ExecuteDelete() dupes.DeleteSummary {
	sum := n.exec.Delete(n.groups, n.rules)
	n.rules.Clear()
	n.Refresh()
	return sum
}

// DeletePrompt is the confirmation question asked before deleting
func DeletePrompt(s dupes.Stats) string {
	return fmt.Sprintf("About to delete %s files (%s bytes) Delete? (y/n) > ",
		humanize.Comma(int64(s.MarkedFiles)), humanize.Comma(int64(s.MarkedBytes)))
}

func parseIndex(arg string) (int, error) {
	if arg == "" {
		return 0, ErrMissingIndex
	}
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidIndex, arg)
	}
	return idx, nil
}
