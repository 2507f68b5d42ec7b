// Package recorded indexes the pre-authored moves a daemon dataset offers.
//
// Datasets are identified by slash-delimited names such as
// "pollen-robotics/reachy-mini-emotions-library". Move names follow the
// library convention of a base word plus an optional variant number
// ("yes1", "yes2"), which Categories uses for grouping.
package recorded

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Well-known public datasets.
const (
	EmotionsDataset = "pollen-robotics/reachy-mini-emotions-library"
	DancesDataset   = "pollen-robotics/reachy-mini-dances-library"
)

// Lister fetches the move names of a dataset. *daemon.Client satisfies it.
type Lister interface {
	ListRecordedMoves(ctx context.Context, dataset string) ([]string, error)
}

// Catalog is an immutable view of one dataset's moves.
type Catalog struct {
	dataset string
	names   []string
	index   map[string]struct{}
}

// New builds a catalog. Duplicate names are dropped, listing order is kept.
func New(dataset string, names []string) *Catalog {
	c := &Catalog{
		dataset: dataset,
		names:   make([]string, 0, len(names)),
		index:   make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if _, dup := c.index[n]; dup {
			continue
		}
		c.index[n] = struct{}{}
		c.names = append(c.names, n)
	}
	return c
}

// Load lists dataset through l and builds a catalog from the result.
func Load(ctx context.Context, l Lister, dataset string) (*Catalog, error) {
	names, err := l.ListRecordedMoves(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dataset, err)
	}
	return New(dataset, names), nil
}

// Dataset returns the dataset identifier.
func (c *Catalog) Dataset() string {
	return c.dataset
}

// Names returns the move names in listing order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of moves.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Contains reports whether the dataset has a move with this exact name.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Categories groups moves by name without trailing digits
// ("yes1" -> "yes"). Each group is sorted.
func (c *Catalog) Categories() map[string][]string {
	categories := make(map[string][]string)
	for _, name := range c.names {
		cat := Category(name)
		categories[cat] = append(categories[cat], name)
	}
	for cat := range categories {
		sort.Strings(categories[cat])
	}
	return categories
}

// Search returns the moves whose name contains query, ignoring case, sorted.
// An empty query matches everything.
func (c *Catalog) Search(query string) []string {
	q := strings.ToLower(query)
	var matches []string
	for _, name := range c.names {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// Category strips trailing digits from a move name. A name made only of
// digits is its own category.
func Category(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return name
	}
	return name[:i]
}
