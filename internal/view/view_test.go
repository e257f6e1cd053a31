package view

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/five82/shelf/internal/catalog"
)

func rec(id, title, author, genre string, status catalog.Status) catalog.Record {
	return catalog.Record{ID: catalog.ID(id), Fields: catalog.Fields{
		Title:         title,
		Author:        author,
		Genre:         genre,
		PublishedYear: 1900,
		Status:        status,
	}}
}

func scenarioSnapshot() []catalog.Record {
	return []catalog.Record{
		rec("1", "Dune", "Herbert", "Science Fiction", catalog.StatusAvailable),
		rec("2", "Emma", "Austen", "Romance", catalog.StatusIssued),
	}
}

func ids(records []catalog.Record) []catalog.ID {
	out := make([]catalog.ID, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestCompute_SearchScenario(t *testing.T) {
	s := NewState(10).SetSearchTerm("du")
	got := Compute(scenarioSnapshot(), s)
	if !reflect.DeepEqual(ids(got.Items), []catalog.ID{"1"}) {
		t.Fatalf("Items = %v, want [1]", ids(got.Items))
	}
	if got.TotalFiltered != 1 || got.TotalPages != 1 {
		t.Fatalf("TotalFiltered/TotalPages = %d/%d, want 1/1", got.TotalFiltered, got.TotalPages)
	}
}

func TestCompute_PaginationScenario(t *testing.T) {
	s := NewState(1).SetPage(1)
	got := Compute(scenarioSnapshot(), s)
	if !reflect.DeepEqual(ids(got.Items), []catalog.ID{"2"}) {
		t.Fatalf("Items = %v, want [2]", ids(got.Items))
	}
	if got.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", got.TotalPages)
	}
}

func TestCompute_Filters(t *testing.T) {
	records := []catalog.Record{
		rec("1", "Dune", "Herbert", "Science Fiction", catalog.StatusAvailable),
		rec("2", "Emma", "Austen", "Romance", catalog.StatusIssued),
		rec("3", "Persuasion", "Austen", "Romance", catalog.StatusAvailable),
		rec("4", "Hyperion", "Simmons", "Science Fiction", catalog.StatusIssued),
	}

	tests := []struct {
		name  string
		state State
		want  []catalog.ID
	}{
		{"no filters", NewState(10), []catalog.ID{"1", "2", "3", "4"}},
		{"author match is case insensitive", NewState(10).SetSearchTerm("AUSTEN"), []catalog.ID{"2", "3"}},
		{"title substring", NewState(10).SetSearchTerm("perion"), []catalog.ID{"4"}},
		{"genre", NewState(10).SetGenreFilter("Romance"), []catalog.ID{"2", "3"}},
		{"genre is exact", NewState(10).SetGenreFilter("romance"), []catalog.ID{}},
		{"status", NewState(10).SetStatusFilter(catalog.StatusIssued), []catalog.ID{"2", "4"}},
		{"genre and status", NewState(10).SetGenreFilter("Romance").SetStatusFilter(catalog.StatusAvailable), []catalog.ID{"3"}},
		{"search and genre", NewState(10).SetSearchTerm("e").SetGenreFilter("Science Fiction"), []catalog.ID{"1", "4"}},
		{"nothing matches", NewState(10).SetSearchTerm("zzz"), []catalog.ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(records, tt.state)
			if !reflect.DeepEqual(ids(got.Items), tt.want) {
				t.Fatalf("Items = %v, want %v", ids(got.Items), tt.want)
			}
			if got.TotalFiltered != len(tt.want) {
				t.Fatalf("TotalFiltered = %d, want %d", got.TotalFiltered, len(tt.want))
			}
		})
	}
}

func manyRecords(n int) []catalog.Record {
	out := make([]catalog.Record, n)
	for i := range out {
		status := catalog.StatusAvailable
		if i%3 == 0 {
			status = catalog.StatusIssued
		}
		out[i] = rec(fmt.Sprint(i+1), fmt.Sprintf("Title %d", i), fmt.Sprintf("Author %d", i%7), fmt.Sprintf("Genre %d", i%4), status)
	}
	return out
}

func TestCompute_PaginationProperties(t *testing.T) {
	searches := []string{"", "1", "author 3", "title 2", "nope"}
	genres := []string{"", "Genre 0", "Genre 3"}
	statuses := []catalog.Status{"", catalog.StatusAvailable, catalog.StatusIssued}

	for _, n := range []int{0, 1, 7, 23, 50} {
		records := manyRecords(n)
		for rows := 1; rows <= 12; rows += 5 {
			for _, search := range searches {
				for _, genre := range genres {
					for _, status := range statuses {
						base := NewState(rows).SetSearchTerm(search).SetGenreFilter(genre).SetStatusFilter(status)
						for page := 0; page <= 6; page++ {
							s := base.SetPage(page)
							got := Compute(records, s)

							if len(got.Items) > s.RowsPerPage {
								t.Fatalf("n=%d %+v: %d items exceeds page size", n, s, len(got.Items))
							}
							if got.TotalFiltered == 0 && got.TotalPages != 0 {
								t.Fatalf("n=%d %+v: TotalPages = %d with nothing filtered", n, s, got.TotalPages)
							}
							if got.TotalFiltered > 0 && got.TotalPages*s.RowsPerPage < got.TotalFiltered {
								t.Fatalf("n=%d %+v: %d pages cannot hold %d", n, s, got.TotalPages, got.TotalFiltered)
							}
							if page >= got.TotalPages && len(got.Items) != 0 {
								t.Fatalf("n=%d %+v: page past end returned %d items", n, s, len(got.Items))
							}
							if got.Page != page {
								t.Fatalf("Compute changed page %d to %d", page, got.Page)
							}
							again := Compute(records, s)
							if !reflect.DeepEqual(got, again) {
								t.Fatalf("Compute not idempotent for %+v", s)
							}
						}
					}
				}
			}
		}
	}
}

func TestCompute_PagesPartitionFilteredRecords(t *testing.T) {
	records := manyRecords(23)
	s := NewState(5).SetStatusFilter(catalog.StatusAvailable)
	want := Filter(records, s)

	first := Compute(records, s)
	var collected []catalog.Record
	for page := 0; page < first.TotalPages; page++ {
		collected = append(collected, Compute(records, s.SetPage(page)).Items...)
	}
	if !reflect.DeepEqual(ids(collected), ids(want)) {
		t.Fatalf("pages = %v, want %v", ids(collected), ids(want))
	}
}

func TestCompute_DoesNotModifyInput(t *testing.T) {
	records := scenarioSnapshot()
	before := catalog.CloneRecords(records)
	got := Compute(records, NewState(1))
	got.Items = append(got.Items, rec("9", "x", "y", "z", catalog.StatusIssued))
	if !reflect.DeepEqual(records, before) {
		t.Fatalf("Compute modified its input")
	}
}

func TestStateTransitions_ResetPage(t *testing.T) {
	base := NewState(10).SetPage(4)
	tests := []struct {
		name string
		next State
	}{
		{"search", base.SetSearchTerm("dune")},
		{"genre", base.SetGenreFilter("Romance")},
		{"status", base.SetStatusFilter(catalog.StatusIssued)},
		{"reset", base.ResetFilters()},
		{"rows per page", base.SetRowsPerPage(25)},
	}
	for _, tt := range tests {
		if tt.next.Page != 0 {
			t.Fatalf("%s: Page = %d, want 0", tt.name, tt.next.Page)
		}
	}
	if base.Page != 4 {
		t.Fatalf("transitions modified the receiver; Page = %d", base.Page)
	}
	if base.SetMode(ModeGrid).Page != 4 {
		t.Fatalf("SetMode should keep the page")
	}
}

func TestStateTransitions_Paging(t *testing.T) {
	s := NewState(10)
	if s.PrevPage().Page != 0 {
		t.Fatalf("PrevPage below 0")
	}
	if s.SetPage(-3).Page != 0 {
		t.Fatalf("SetPage(-3) should clamp to 0")
	}
	s = s.NextPage(3).NextPage(3).NextPage(3)
	if s.Page != 2 {
		t.Fatalf("NextPage past last page: Page = %d, want 2", s.Page)
	}
	if s.PrevPage().Page != 1 {
		t.Fatalf("PrevPage = %d, want 1", s.PrevPage().Page)
	}
	if NewState(10).NextPage(0).Page != 0 {
		t.Fatalf("NextPage with no pages should stay on 0")
	}
	if NewState(10).SetRowsPerPage(0).RowsPerPage != 10 {
		t.Fatalf("SetRowsPerPage(0) should be ignored")
	}
}

func TestStateDefaultsAndModes(t *testing.T) {
	s := NewState(0)
	if s.RowsPerPage != DefaultRowsPerPage || s.Mode != ModeTable || s.Page != 0 || s.Filtered() {
		t.Fatalf("NewState(0) = %+v, want defaults", s)
	}
	if s.ToggleMode().Mode != ModeGrid || s.ToggleMode().ToggleMode().Mode != ModeTable {
		t.Fatalf("ToggleMode should flip table/grid")
	}
	if ParseMode("grid") != ModeGrid || ParseMode("bogus") != ModeTable {
		t.Fatalf("ParseMode mismatch")
	}
	if !s.SetGenreFilter("x").Filtered() {
		t.Fatalf("Filtered() = false with genre filter")
	}
}

func TestGenres(t *testing.T) {
	records := []catalog.Record{
		rec("1", "a", "a", "Romance", catalog.StatusAvailable),
		rec("2", "b", "b", "", catalog.StatusAvailable),
		rec("3", "c", "c", "Fantasy", catalog.StatusAvailable),
		rec("4", "d", "d", "Romance", catalog.StatusAvailable),
	}
	want := []string{"Romance", "Fantasy"}
	if got := Genres(records); !reflect.DeepEqual(got, want) {
		t.Fatalf("Genres = %v, want %v", got, want)
	}
	if Genres(nil) != nil {
		t.Fatalf("Genres(nil) should be nil")
	}
}

func TestMemo_MatchesCompute(t *testing.T) {
	records := manyRecords(30)
	var m Memo
	s := NewState(4).SetSearchTerm("title 1")

	first := m.Compute(1, records, s)
	if !reflect.DeepEqual(first, Compute(records, s)) {
		t.Fatalf("Memo result differs from Compute")
	}

	next := s.SetPage(1)
	if !reflect.DeepEqual(m.Compute(1, records, next), Compute(records, next)) {
		t.Fatalf("Memo did not recompute on state change")
	}

	changed := records[:5]
	if !reflect.DeepEqual(m.Compute(2, changed, next), Compute(changed, next)) {
		t.Fatalf("Memo did not recompute on version change")
	}
}
