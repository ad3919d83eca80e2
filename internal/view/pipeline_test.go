package view_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/view"
	"golang.org/x/text/language"
)

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

func contact(name string, phone float64) contacts.Contact {
	return contacts.Contact{DisplayName: name, Phone: contacts.PhoneFromNumber(phone)}
}

func names(records []contacts.Contact) []string {
	out := make([]string, len(records))
	for i, c := range records {
		out[i] = c.DisplayName
	}
	return out
}

func rowNames(rows []view.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%d:%s", r.Number, r.Contact.DisplayName)
	}
	return out
}

func aliceBob() []contacts.Contact {
	return []contacts.Contact{contact("Alice", 555), contact("bob", 123)}
}

// manyContacts builds n contacts with distinct names and phones.
func manyContacts(n int) []contacts.Contact {
	out := make([]contacts.Contact, n)
	for i := range out {
		out[i] = contact(fmt.Sprintf("Contact %02d", i+1), float64(1000+i*7%n))
	}
	return out
}

func newPipeline(pageSize int) *view.Pipeline {
	return view.NewPipeline(pageSize, language.French)
}

// -----------------------------------------------------------------------------
// Scenarios
// -----------------------------------------------------------------------------

func TestDerive_NoSortKeepsInputOrder(t *testing.T) {
	res := newPipeline(5).Derive(aliceBob(), view.NewState())

	assert.Equal(t, []string{"1:Alice", "2:bob"}, rowNames(res.Visible))
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 2, res.Total)
}

func TestDerive_SortByNameAscending(t *testing.T) {
	st := view.NewState()
	st.ToggleSort(view.SortName)

	res := newPipeline(5).Derive(aliceBob(), st)
	assert.Equal(t, []string{"Alice", "bob"}, names(res.Filtered), "Collation ignores case at the primary level")
}

func TestDerive_PhoneSubstringQuery(t *testing.T) {
	st := view.NewState()
	st.SetQuery("55")

	res := newPipeline(5).Derive(aliceBob(), st)
	require.Len(t, res.Filtered, 1)
	assert.Equal(t, "Alice", res.Filtered[0].DisplayName)
	assert.Equal(t, "555", res.Filtered[0].Phone.String())
}

func TestDerive_NoMatchYieldsZeroPages(t *testing.T) {
	st := view.NewState()
	st.SetQuery("zzz")

	res := newPipeline(5).Derive(aliceBob(), st)
	assert.Empty(t, res.Filtered)
	assert.Empty(t, res.Visible)
	assert.Equal(t, 0, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.False(t, res.Empty(), "Input is not empty, only the filtered set")
}

func TestDerive_EmptyInput(t *testing.T) {
	res := newPipeline(5).Derive(nil, view.NewState())
	assert.True(t, res.Empty())
	assert.Equal(t, 0, res.TotalPages)
}

func TestDerive_RowNumbersFollowPage(t *testing.T) {
	st := view.NewState()
	st.GoTo(2)

	res := newPipeline(5).Derive(manyContacts(12), st)
	require.Len(t, res.Visible, 5)
	assert.Equal(t, 6, res.Visible[0].Number)
	assert.Equal(t, 10, res.Visible[4].Number)
	assert.Equal(t, 3, res.TotalPages)
}

func TestDerive_ClampsPageAfterFilterShrinks(t *testing.T) {
	st := view.NewState()
	st.GoTo(3)
	st.SetQuery("Contact 0") // Contact 01..09

	res := newPipeline(5).Derive(manyContacts(12), st)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.Page, "Out-of-range page is clamped to the last page")
	assert.Equal(t, []string{"6:Contact 06", "7:Contact 07", "8:Contact 08", "9:Contact 09"}, rowNames(res.Visible))
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	records := []contacts.Contact{contact("Zoé", 3), contact("Adam", 1), contact("Marc", 2)}
	original := slices.Clone(records)

	st := view.NewState()
	st.ToggleSort(view.SortName)
	st.SetQuery("a")
	_ = newPipeline(2).Derive(records, st)

	assert.Equal(t, original, records)
}

// -----------------------------------------------------------------------------
// Properties
// -----------------------------------------------------------------------------

func TestProperty_PagesCoverFilteredSet(t *testing.T) {
	p := newPipeline(5)
	for _, n := range []int{1, 4, 5, 6, 10, 11, 23} {
		records := manyContacts(n)
		first := p.Derive(records, view.NewState())

		seen := 0
		for page := 1; page <= first.TotalPages; page++ {
			st := view.NewState()
			st.GoTo(page)
			res := p.Derive(records, st)
			if page < first.TotalPages {
				assert.Len(t, res.Visible, p.PageSize(), "n=%d page=%d", n, page)
			} else {
				assert.LessOrEqual(t, len(res.Visible), p.PageSize(), "n=%d last page", n)
				assert.NotEmpty(t, res.Visible, "n=%d last page", n)
			}
			seen += len(res.Visible)
		}
		assert.Equal(t, len(first.Filtered), seen, "n=%d", n)
	}
}

func TestProperty_FilterIdempotent(t *testing.T) {
	records := append(manyContacts(20), contact("Éloïse", 5550123), contact("Bruno", 1555))
	for _, q := range []string{"", "55", "contact 1", "é", "zz"} {
		once := view.Filter(records, q)
		twice := view.Filter(once, q)
		assert.Equal(t, once, twice, "query %q", q)
	}
}

func TestProperty_ToggleReverses(t *testing.T) {
	p := newPipeline(50)
	records := []contacts.Contact{
		contact("Denis", 42), contact("alice", 7), contact("Émile", 19), contact("Bob", 3), contact("chloé", 100),
	}

	for _, key := range []view.SortKey{view.SortName, view.SortPhone} {
		st := view.NewState()
		st.ToggleSort(key)
		asc := p.Derive(records, st).Filtered

		st.ToggleSort(key)
		require.Equal(t, view.Descending, st.Direction)
		desc := p.Derive(records, st).Filtered

		reversed := slices.Clone(asc)
		slices.Reverse(reversed)
		assert.Equal(t, names(reversed), names(desc), "key %v", key)
	}
}

func TestProperty_SubstringOfNameFindsContact(t *testing.T) {
	records := manyContacts(15)
	records = append(records, contact("Marguerite Yourcenar", 612))

	for _, q := range []string{"Marg", "yourc", "TE YOU"} {
		got := view.Filter(records, q)
		assert.Contains(t, names(got), "Marguerite Yourcenar", "query %q", q)
	}
}

// -----------------------------------------------------------------------------
// Sort details
// -----------------------------------------------------------------------------

func TestSort_NameCollation(t *testing.T) {
	records := []contacts.Contact{
		contact("Fabrice", 1), contact("Émile", 2), contact("Denis", 3), contact("Alice", 4), contact("alice", 5),
	}

	got := newPipeline(5).Sort(records, view.SortName, view.Ascending)
	assert.Equal(t, []string{"alice", "Alice", "Denis", "Émile", "Fabrice"}, names(got),
		"Accents sort with their base letter and lowercase precedes uppercase")
}

func TestSort_PhoneNumeric(t *testing.T) {
	records := []contacts.Contact{
		{DisplayName: "text", Phone: contacts.PhoneFromString("n/a")},
		contact("big", 1000),
		{DisplayName: "string", Phone: contacts.PhoneFromString("99")},
		contact("small", 5),
	}

	got := newPipeline(5).Sort(records, view.SortPhone, view.Ascending)
	assert.Equal(t, []string{"small", "string", "big", "text"}, names(got),
		"Numeric strings compare as numbers and non-numeric phones go last")
}

func TestSort_NoneIsStableCopy(t *testing.T) {
	records := aliceBob()
	got := newPipeline(5).Sort(records, view.SortNone, view.Descending)
	assert.Equal(t, names(records), names(got))

	got[0].DisplayName = "changed"
	assert.Equal(t, "Alice", records[0].DisplayName, "Sort returns a copy")
}

// -----------------------------------------------------------------------------
// Pagination math
// -----------------------------------------------------------------------------

func TestPaginationMath(t *testing.T) {
	assert.Equal(t, 0, view.TotalPages(0, 5))
	assert.Equal(t, 1, view.TotalPages(5, 5))
	assert.Equal(t, 2, view.TotalPages(6, 5))

	assert.Equal(t, 1, view.ClampPage(0, 3))
	assert.Equal(t, 3, view.ClampPage(9, 3))
	assert.Equal(t, 1, view.ClampPage(4, 0))

	start, end := view.PageBounds(12, 3, 5)
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)

	start, end = view.PageBounds(0, 1, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestNewPipeline_DefaultPageSize(t *testing.T) {
	assert.Equal(t, 5, view.NewPipeline(0, language.French).PageSize())
	assert.Equal(t, 7, view.NewPipeline(7, language.French).PageSize())
}
