package dupes

// Matcher decides whether the file at path is selected for deletion.
// *rules.Set implements it.
type Matcher interface {
	Match(path string) bool
}

// Stats counts files and bytes in one or more groups
type Stats struct {
	TotalFiles     uint64
	DuplicateFiles uint64
	MarkedFiles    uint64
	GroupCount     uint64
	TotalBytes     uint64
	DuplicateBytes uint64
	MarkedBytes    uint64
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.TotalFiles += other.TotalFiles
	s.DuplicateFiles += other.DuplicateFiles
	s.MarkedFiles += other.MarkedFiles
	s.GroupCount += other.GroupCount
	s.TotalBytes += other.TotalBytes
	s.DuplicateBytes += other.DuplicateBytes
	s.MarkedBytes += other.MarkedBytes
}

// AverageGroupSize returns the mean number of files per group
func (s Stats) AverageGroupSize() float64 {
	if s.GroupCount == 0 {
		return 0
	}
	return float64(s.TotalFiles) / float64(s.GroupCount)
}

// Marks returns, for each member of g in path order, whether it is marked for
// deletion. A member matching a rule is not marked when it is the last
// unmarked file of the group, so at least one file always survives.
func Marks(g *Group, m Matcher) []bool {
	marks := make([]bool, g.Len())
	marked := 0
	for i, rec := range g.files {
		if marked+1 >= g.Len() {
			break
		}
		if m.Match(rec.Path) {
			marks[i] = true
			marked++
		}
	}
	return marks
}

// GroupStats counts one group. Every member but the first is a duplicate.
func GroupStats(g *Group, m Matcher) Stats {
	n := uint64(g.Len())
	if n == 0 {
		return Stats{}
	}
	s := Stats{
		TotalFiles:     n,
		DuplicateFiles: n - 1,
		GroupCount:     1,
		TotalBytes:     n * g.Size(),
		DuplicateBytes: (n - 1) * g.Size(),
	}
	for _, marked := range Marks(g, m) {
		if marked {
			s.MarkedFiles++
		}
	}
	s.MarkedBytes = s.MarkedFiles * g.Size()
	return s
}

// TotalStats sums GroupStats over every group in c
func TotalStats(c *Collection, m Matcher) Stats {
	var total Stats
	for _, g := range c.groups {
		total.Add(GroupStats(g, m))
	}
	return total
}
