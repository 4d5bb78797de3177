package types

import "github.com/lepinkainen/duplex/files"

// Config is built once from the command line and handed to every component
// that needs an option. It is passed by value and never modified afterwards.
type Config struct {
	Targets   []files.Target
	Manifests []string
	Rules     []string
	Filter    files.Filter
	Algorithm files.Algorithm
	Workers   int

	Automatic bool
	DryRun    bool
	Quiet     bool
	TUI       bool
}

// TargetPaths returns the folder of every target
func (c Config) TargetPaths() []string {
	paths := make([]string, len(c.Targets))
	for i, t := range c.Targets {
		paths[i] = t.Path
	}
	return paths
}
