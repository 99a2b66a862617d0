package fixedwidth

// Column declares one fixed-width column.
type Column struct {
	Size int
	// Counter defaults to CharWidth.
	Counter Counter
	// PadChar defaults to a space.
	PadChar    rune
	RightAlign bool
	// Chopped allows Pad to cut text that exceeds Size.
	Chopped bool
}

func (c Column) counter() Counter {
	if c.Counter == nil {
		return CharWidth
	}
	return c.Counter
}

func (c Column) padChar() rune {
	if c.PadChar == 0 {
		return ' '
	}
	return c.PadChar
}

// Width returns the counted width of s for this column.
func (c Column) Width(s string) int { return c.counter().Count(s) }
