package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/rules"
)

func comma(n uint64) string {
	return humanize.Comma(int64(n))
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n    %s\n", SectionStyle.Render(title))
}

// RenderRules lists the rules with their 1-based index
func RenderRules(rs *rules.Set) string {
	var b strings.Builder
	section(&b, "Rules:")
	if rs.Len() == 0 {
		b.WriteString("              No rules defined\n")
		return b.String()
	}
	for i, r := range rs.Rules() {
		fmt.Fprintf(&b, "%14s: %s\n", humanize.Comma(int64(i+1)), r)
	}
	return b.String()
}

// RenderGroup lists the members of g. Files marked for deletion carry a '*'.
func RenderGroup(g *dupes.Group, m dupes.Matcher) string {
	var b strings.Builder
	section(&b, "Duplicates:")

	marks := dupes.Marks(g, m)
	for i, rec := range g.Files() {
		line := fmt.Sprintf("%9s  %3s %s", "", humanize.Comma(int64(i+1)), rec.Path)
		if marks[i] {
			line = MarkedStyle.Render(fmt.Sprintf("%9s* %3s %s", "", humanize.Comma(int64(i+1)), rec.Path))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	s := dupes.GroupStats(g, m)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%14s bytes per file, all with hash %s\n", comma(g.Size()), g.Digest())
	fmt.Fprintf(&b, "%14s bytes in group\n", comma(s.TotalBytes))
	fmt.Fprintf(&b, "%14s bytes in duplicates\n", comma(s.DuplicateBytes))
	fmt.Fprintf(&b, "%14s bytes in marked files\n", comma(s.MarkedBytes))
	return b.String()
}

// RenderStats shows the totals over all groups
func RenderStats(s dupes.Stats) string {
	var b strings.Builder
	section(&b, "Total:")
	fmt.Fprintf(&b, "%14s files\n", comma(s.TotalFiles))
	fmt.Fprintf(&b, "%14s groups\n", comma(s.GroupCount))
	fmt.Fprintf(&b, "%14s duplicates\n", comma(s.DuplicateFiles))
	fmt.Fprintf(&b, "%14s marked files\n", comma(s.MarkedFiles))
	fmt.Fprintf(&b, "%14s bytes in all groups\n", comma(s.TotalBytes))
	fmt.Fprintf(&b, "%14s bytes in duplicates\n", comma(s.DuplicateBytes))
	fmt.Fprintf(&b, "%14s bytes in all marked files\n", comma(s.MarkedBytes))
	fmt.Fprintf(&b, "%14.2f files per group (average)\n", s.AverageGroupSize())
	return b.String()
}

var helpLines = [][2]string{
	{"<Enter>", "go to next group"},
	{"f (first)", "go to first group"},
	{"l (last)", "go to last group"},
	{"p (previous)", "go to previous group"},
	{"regex string", "add rule to delete all files in all groups matching the regex"},
	{"index number", "add rule to delete the single file with given index in the group"},
	{"d (index)", "remove rule"},
	{"h, help, ?", "display this message"},
	{"exit", "exit program without deleting anything"},
	{"delete", "prompt, then delete all marked files"},
}

// RenderHelp lists the review commands
func RenderHelp() string {
	var b strings.Builder
	section(&b, "Commands:")
	for _, l := range helpLines {
		fmt.Fprintf(&b, "        %-15s%s\n", l[0], l[1])
	}
	return b.String()
}

// RenderDeleteSummary reports the result of a deletion pass
func RenderDeleteSummary(sum dupes.DeleteSummary, dryRun bool) string {
	var b strings.Builder
	verb := "Deleted"
	if dryRun {
		verb = "Dry-run, would have deleted"
	}
	b.WriteString("\n")
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("%s %s files (%s)",
		verb, humanize.Comma(int64(len(sum.Deleted))), humanize.Bytes(sum.Freed))))
	b.WriteString("\n")

	if len(sum.Failures) > 0 {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Failed to delete %s files:", humanize.Comma(int64(len(sum.Failures))))))
		b.WriteString("\n")
		for _, f := range sum.Failures {
			fmt.Fprintf(&b, "    %s: %v\n", f.Record.Path, f.Err)
		}
	}
	return b.String()
}
