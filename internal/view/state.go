// Package view derives the visible page of the contact list from the input
// records and the view state: filter, then sort, then paginate.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tartampluch/go-contacts/internal/config"
)

// SortKey is the column the list is ordered by.
type SortKey int

const (
	// SortNone keeps the records in filter (input) order.
	SortNone SortKey = iota
	SortName
	SortPhone
)

// String returns the token used in URLs and CLI flags ("" for SortNone).
func (k SortKey) String() string {
	switch k {
	case SortName:
		return config.SortTokenName
	case SortPhone:
		return config.SortTokenPhone
	default:
		return ""
	}
}

// ParseSortKey is the inverse of SortKey.String.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortNone, nil
	case config.SortTokenName:
		return SortName, nil
	case config.SortTokenPhone:
		return SortPhone, nil
	default:
		return SortNone, fmt.Errorf("%s: %q", config.ErrSortKey, s)
	}
}

// Direction is the sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return config.SortTokenDesc
	}
	return config.SortTokenAsc
}

// ParseDirection accepts "asc", "desc" or "" (ascending).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.SortTokenAsc:
		return Ascending, nil
	case config.SortTokenDesc:
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("%s: %q", config.ErrSortDirection, s)
	}
}

// ParseSort parses "key" or "key:direction" (e.g. "name", "phone:desc").
func ParseSort(expr string) (SortKey, Direction, error) {
	if strings.TrimSpace(expr) == "" {
		return SortNone, Ascending, nil
	}

	keyPart, dirPart, _ := strings.Cut(expr, config.SortSeparator)
	if strings.Contains(dirPart, config.SortSeparator) {
		return SortNone, Ascending, fmt.Errorf("%s: %q", config.ErrSortExpr, expr)
	}

	key, err := ParseSortKey(keyPart)
	if err != nil {
		return SortNone, Ascending, err
	}
	if key == SortNone {
		return SortNone, Ascending, errors.New(config.ErrSortExpr)
	}

	dir, err := ParseDirection(dirPart)
	if err != nil {
		return SortNone, Ascending, err
	}
	return key, dir, nil
}

// State is the session-local view state of one contact list.
// The zero value is not usable; start from NewState.
type State struct {
	Page      int
	Sort      SortKey
	Direction Direction
	Query     string
}

// NewState returns the initial state: first page, no sort, empty query.
func NewState() State {
	return State{Page: config.FirstPage, Sort: SortNone, Direction: Ascending}
}

// ToggleSort selects key. Selecting the active key flips the direction;
// selecting another key resets the direction to ascending.
func (s *State) ToggleSort(key SortKey) {
	if s.Sort == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Sort = key
	s.Direction = Ascending
}

// SetQuery replaces the search query. The page is kept; Derive clamps it.
func (s *State) SetQuery(q string) {
	s.Query = q
}

// GoTo selects a page. Values below the first page select the first page.
func (s *State) GoTo(page int) {
	if page < config.FirstPage {
		page = config.FirstPage
	}
	s.Page = page
}
