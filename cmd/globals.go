package cmd

import (
	"io"

	"github.com/lepinkainen/duplex/utils"
	"github.com/sirupsen/logrus"
)

// Globals are the flags shared by every command
type Globals struct {
	Quiet   bool `short:"q" help:"Display only error messages"`
	Verbose bool `short:"v" help:"Display verbose messages"`
	Debug   bool `short:"e" help:"Display debug messages, including every file found and hashed"`
}

// Logger creates the logger for the selected verbosity
func (g *Globals) Logger(w io.Writer) *logrus.Logger {
	return utils.NewLogger(w, utils.LogLevel(g.Quiet, g.Verbose, g.Debug))
}
