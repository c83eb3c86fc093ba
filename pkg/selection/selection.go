// Package selection tracks bulk row selection and column ordering for
// tabular record listings.
package selection

import "sort"

// Comparator reports whether the row with id a sorts before the row
// with id b.
type Comparator func(a, b string) bool

// Controller tracks which rows of a listing are selected and which
// column orders the listing. The bulk-action panel is visible whenever
// at least one row is selected.
type Controller struct {
	rows        []string
	selected    map[string]bool
	comparators map[string]Comparator
	sortColumn  string
	descending  bool
}

// NewController creates a controller over the given row ids, preserving
// their order.
func NewController(rows []string) *Controller {
	c := &Controller{
		rows:        append([]string(nil), rows...),
		selected:    make(map[string]bool),
		comparators: make(map[string]Comparator),
	}
	return c
}

// SetRows replaces the row set. Selections for rows that no longer
// exist are dropped.
func (c *Controller) SetRows(rows []string) {
	c.rows = append(c.rows[:0], rows...)
	present := make(map[string]bool, len(rows))
	for _, id := range rows {
		present[id] = true
	}
	for id := range c.selected {
		if !present[id] {
			delete(c.selected, id)
		}
	}
}

// SelectAll selects or clears every row.
func (c *Controller) SelectAll(on bool) {
	if !on {
		c.selected = make(map[string]bool)
		return
	}
	for _, id := range c.rows {
		c.selected[id] = true
	}
}

// Toggle flips the selection state of one row. Unknown ids are ignored.
func (c *Controller) Toggle(id string) {
	if !c.knows(id) {
		return
	}
	if c.selected[id] {
		delete(c.selected, id)
	} else {
		c.selected[id] = true
	}
}

func (c *Controller) knows(id string) bool {
	for _, r := range c.rows {
		if r == id {
			return true
		}
	}
	return false
}

// Selected reports whether one row is selected.
func (c *Controller) Selected(id string) bool {
	return c.selected[id]
}

// Count returns the number of selected rows.
func (c *Controller) Count() int {
	return len(c.selected)
}

// AllSelected reports whether every row is selected.
func (c *Controller) AllSelected() bool {
	return len(c.rows) > 0 && len(c.selected) == len(c.rows)
}

// BulkPanelVisible reports whether the bulk-action panel should show.
func (c *Controller) BulkPanelVisible() bool {
	return len(c.selected) > 0
}

// SelectedIDs returns the selected ids in listing order.
func (c *Controller) SelectedIDs() []string {
	out := make([]string, 0, len(c.selected))
	for _, id := range c.rows {
		if c.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// RegisterComparator wires an ordering for one column header.
func (c *Controller) RegisterComparator(column string, cmp Comparator) {
	c.comparators[column] = cmp
}

// SortBy orders the rows by a registered column. A repeated click on the
// same column flips the direction. Unregistered columns are ignored.
func (c *Controller) SortBy(column string) {
	cmp, ok := c.comparators[column]
	if !ok {
		return
	}
	if c.sortColumn == column {
		c.descending = !c.descending
	} else {
		c.sortColumn = column
		c.descending = false
	}
	desc := c.descending
	sort.SliceStable(c.rows, func(i, j int) bool {
		if desc {
			return cmp(c.rows[j], c.rows[i])
		}
		return cmp(c.rows[i], c.rows[j])
	})
}

// Rows returns the current row order.
func (c *Controller) Rows() []string {
	return append([]string(nil), c.rows...)
}

// SortState returns the active sort column and direction.
func (c *Controller) SortState() (column string, descending bool) {
	return c.sortColumn, c.descending
}
