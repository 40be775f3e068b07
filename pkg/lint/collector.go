package lint

// Collector accumulates issues in the order they are produced.
// It never sorts, deduplicates or drops issues.
type Collector struct {
	issues []Issue
}

// Add appends an issue.
func (c *Collector) Add(issue Issue) {
	c.issues = append(c.issues, issue)
}

// Len returns the number of collected issues.
func (c *Collector) Len() int { return len(c.issues) }

// Issues returns the collected issues. The result is never nil.
func (c *Collector) Issues() []Issue {
	if c.issues == nil {
		return []Issue{}
	}
	return c.issues
}
