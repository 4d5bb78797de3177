package ui

import "github.com/lepinkainen/duplex/dupes"

// TUI Message Types for duplicate review
type DeletionCompleteMsg struct {
	Summary dupes.DeleteSummary
}
