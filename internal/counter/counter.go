package counter

// Counter is the demo counter slice persisted next to the game.
type Counter struct {
	Count int `json:"count"`
}

// Increase adds one.
func Increase(c Counter) Counter {
	c.Count++
	return c
}

// Decrease subtracts one. The count may go negative.
func Decrease(c Counter) Counter {
	c.Count--
	return c
}

// Reset returns a zeroed counter.
func Reset(Counter) Counter {
	return Counter{}
}
