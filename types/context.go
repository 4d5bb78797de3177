package types

import "fmt"

// DefaultVersion is reported when no AppContext was bound
const DefaultVersion = "dev"

// AppContext carries build information into the kong commands
type AppContext struct {
	Name    string
	Version string
}

// Banner is the header line printed before a run starts
func (c *AppContext) Banner() string {
	if c == nil {
		return "Duplex " + DefaultVersion
	}
	name := c.Name
	if name == "" {
		name = "Duplex"
	}
	version := c.Version
	if version == "" {
		version = DefaultVersion
	}
	return fmt.Sprintf("%s %s", name, version)
}
