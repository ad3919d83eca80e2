package view

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is a visible contact with its 1-based position in the filtered and
// sorted sequence.
type Row struct {
	Number  int
	Contact contacts.Contact
}

// Result is the derived view for one (records, state) pair.
type Result struct {
	// Total is the number of input records, before filtering.
	Total int

	// Filtered is the full filtered and sorted sequence (exports use it).
	Filtered []contacts.Contact

	// Visible is the slice of Filtered shown on Page.
	Visible []Row

	// Page is the effective page after clamping to [1, max(1, TotalPages)].
	Page int

	// TotalPages is ceil(len(Filtered) / page size); zero when nothing matches.
	TotalPages int
}

// Empty reports whether there are no input records at all.
func (r Result) Empty() bool {
	return r.Total == 0
}

// Pipeline applies filter, sort and pagination with a fixed page size
// and collation language.
type Pipeline struct {
	pageSize  int
	collation language.Tag
}

// NewPipeline builds a pipeline. A page size below 1 selects the default.
func NewPipeline(pageSize int, collation language.Tag) *Pipeline {
	if pageSize < config.MinPageSize {
		pageSize = config.DefaultPageSize
	}
	return &Pipeline{pageSize: pageSize, collation: collation}
}

// PageSize returns the number of records per page.
func (p *Pipeline) PageSize() int {
	return p.pageSize
}

// Derive computes the view. records is never modified.
func (p *Pipeline) Derive(records []contacts.Contact, st State) Result {
	filtered := Filter(records, st.Query)
	sorted := p.Sort(filtered, st.Sort, st.Direction)

	total := TotalPages(len(sorted), p.pageSize)
	page := ClampPage(st.Page, total)
	start, end := PageBounds(len(sorted), page, p.pageSize)

	visible := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		visible = append(visible, Row{Number: i + 1, Contact: sorted[i]})
	}

	slog.Debug(config.MsgDerived,
		config.LogKeyComponent, config.CompView,
		config.LogKeyCount, len(records),
		config.LogKeyFiltered, len(sorted),
		config.LogKeyPage, page,
		config.LogKeyPages, total,
	)

	return Result{
		Total:      len(records),
		Filtered:   sorted,
		Visible:    visible,
		Page:       page,
		TotalPages: total,
	}
}

// Filter keeps records whose name contains query (case-insensitive) or whose
// phone string contains query literally. An empty query keeps everything.
// The result is always a new slice.
func Filter(records []contacts.Contact, query string) []contacts.Contact {
	out := make([]contacts.Contact, 0, len(records))
	if query == "" {
		return append(out, records...)
	}

	name := matcher(query)
	for _, c := range records {
		if name.MatchString(c.DisplayName) ||
			strings.Contains(c.Phone.String(), query) {
			out = append(out, c)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. SortNone returns a copy in
// the original order.
func (p *Pipeline) Sort(records []contacts.Contact, key SortKey, dir Direction) []contacts.Contact {
	sorted := slices.Clone(records)
	compare := p.comparator(key)
	if compare == nil {
		return sorted
	}

	if dir == Descending {
		asc := compare
		compare = func(a, b contacts.Contact) int { return asc(b, a) }
	}
	slices.SortStableFunc(sorted, compare)

	slog.Debug(config.MsgSorted,
		config.LogKeyComponent, config.CompView,
		config.LogKeySort, key.String(),
		config.LogKeyDirection, dir.String(),
	)
	return sorted
}

// comparator maps a sort key to its ascending comparison.
// A collator is built per call because collate.Collator is not safe for
// concurrent use.
func (p *Pipeline) comparator(key SortKey) func(a, b contacts.Contact) int {
	switch key {
	case SortName:
		col := collate.New(p.collation)
		return func(a, b contacts.Contact) int {
			return col.CompareString(a.DisplayName, b.DisplayName)
		}
	case SortPhone:
		return comparePhones
	default:
		return nil
	}
}

// comparePhones orders numerically. Phones that do not parse as numbers
// sort after all numeric ones, by their text.
func comparePhones(a, b contacts.Contact) int {
	na, okA := a.Phone.Number()
	nb, okB := b.Phone.Number()
	switch {
	case okA && okB:
		return cmp.Compare(na, nb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a.Phone.String(), b.Phone.String())
	}
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < config.FirstPage {
		page = config.FirstPage
	}
	return page
}

// PageBounds returns the half-open index range [start, end) of page within
// count records.
func PageBounds(count, page, pageSize int) (int, int) {
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start > count {
		start = count
	}
	end := min(start+pageSize, count)
	return start, end
}
