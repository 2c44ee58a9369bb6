package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type item struct {
	title   string
	genres  []string
	year    int
	created time.Time
}

var fields = Fields[item]{
	Title:     func(i item) string { return i.title },
	Haystack:  func(i item) []string { return append([]string{i.title}, i.genres...) },
	CreatedAt: func(i item) time.Time { return i.created },
	Year:      func(i item) int { return i.year },
}

func sample() []item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []item{
		{title: "Berserk", genres: []string{"Action", "Dark Fantasy"}, year: 1997, created: base},
		{title: "Akira", genres: []string{"Sci-Fi"}, year: 1988, created: base.Add(time.Hour)},
		{title: "Monster", genres: []string{"Thriller"}, year: 2004, created: base.Add(2 * time.Hour)},
	}
}

func titles(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.title
	}
	return out
}

func TestApplyDefaultSortIsLatest(t *testing.T) {
	page := Apply(sample(), Params{PerPage: 10}, fields)
	require.Equal(t, []string{"Monster", "Akira", "Berserk"}, titles(page.Items))
	require.Equal(t, 3, page.Total)
	require.Equal(t, 1, page.Number)
	require.Equal(t, 1, page.TotalPages)
}

func TestApplySorts(t *testing.T) {
	for _, tc := range []struct {
		sort string
		want []string
	}{
		{SortAZ, []string{"Akira", "Berserk", "Monster"}},
		{SortZA, []string{"Monster", "Berserk", "Akira"}},
		{SortYear, []string{"Monster", "Berserk", "Akira"}},
		{SortLatest, []string{"Monster", "Akira", "Berserk"}},
	} {
		page := Apply(sample(), Params{Sort: tc.sort, PerPage: 10}, fields)
		require.Equal(t, tc.want, titles(page.Items), "sort %q", tc.sort)
	}
}

func TestApplyFilter(t *testing.T) {
	page := Apply(sample(), Params{Query: "fantasy", PerPage: 10}, fields)
	require.Equal(t, []string{"Berserk"}, titles(page.Items), "genre text is searchable")

	page = Apply(sample(), Params{Query: "AKIRA", PerPage: 10}, fields)
	require.Equal(t, []string{"Akira"}, titles(page.Items), "matching is case-insensitive")

	page = Apply(sample(), Params{Query: "nothing here", PerPage: 10}, fields)
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.TotalPages)
}

func TestApplyPagination(t *testing.T) {
	page := Apply(sample(), Params{Sort: SortAZ, Page: 2, PerPage: 2}, fields)
	require.Equal(t, []string{"Monster"}, titles(page.Items))
	require.Equal(t, 2, page.Number)
	require.Equal(t, 2, page.TotalPages)

	// Out-of-range pages clamp instead of erroring.
	page = Apply(sample(), Params{Sort: SortAZ, Page: 99, PerPage: 2}, fields)
	require.Equal(t, 2, page.Number)
	page = Apply(sample(), Params{Sort: SortAZ, Page: -1, PerPage: 2}, fields)
	require.Equal(t, 1, page.Number)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sample()
	Apply(items, Params{Sort: SortAZ, PerPage: 10}, fields)
	require.Equal(t, []string{"Berserk", "Akira", "Monster"}, titles(items))
}
