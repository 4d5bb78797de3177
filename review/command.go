package review

import "strings"

// Command is one operator input line split into a command word and its argument
type Command struct {
	Name string
	Arg  string
	// Line is the whole input with surrounding whitespace removed
	Line string
}

// ParseCommand splits line at the first space. Both halves are trimmed.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")
	return Command{
		Name: strings.TrimSpace(name),
		Arg:  strings.TrimSpace(arg),
		Line: line,
	}
}
