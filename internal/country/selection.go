package country

// Selection is the currently selected parameter group. Any string is a
// valid state; unknown paths resolve to no parameters.
type Selection struct {
	path string
}

// NewSelection starts at the context's default group.
func NewSelection(c *Context) Selection {
	return Selection{path: c.DefaultSelectedParameterGroup()}
}

// Path returns the selected path.
func (s Selection) Path() string {
	return s.path
}

// SelectGroup replaces the selection unconditionally.
func (s *Selection) SelectGroup(path string) {
	s.path = path
}
