package libutil

type Releaser interface {
	Release()
}

// Cleanup collects resources created along a fallible path.
// Call Release in a deferred function when the path fails, Keep when it succeeds.
type Cleanup struct {
	items []Releaser
}

func (c *Cleanup) Add(r Releaser) {
	if r != nil {
		c.items = append(c.items, r)
	}
}

// Release releases every collected resource in reverse order.
func (c *Cleanup) Release() {
	for i := len(c.items) - 1; i >= 0; i-- {
		c.items[i].Release()
	}
	if len(c.items) > 0 {
		Logger().Debug("released partial resources", "count", len(c.items))
	}
	c.items = nil
}

// Keep forgets the collected resources without releasing them.
func (c *Cleanup) Keep() {
	c.items = nil
}
