package paging

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type response struct {
	Success       bool     `json:"success"`
	Bookmarks     []record `json:"bookmarks"`
	MoreAvailable bool     `json:"moreAvailable"`
}

func wrap(items []record, more bool) any {
	return response{Success: true, Bookmarks: items, MoreAvailable: more}
}

func sizeOf(t *testing.T, v any) int {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return len(b)
}

func uniformRecords(n int) []record {
	out := make([]record, n)
	for i := range out {
		out[i] = record{ID: i + 1, Name: "same"}
	}
	return out
}

func TestPlanEmptyInput(t *testing.T) {
	page, err := Plan([]record{}, 0, 0, wrap)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 || page.MoreAvailable {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestPlanTwoPagesOfUniformItems(t *testing.T) {
	items := uniformRecords(4)
	overhead := sizeOf(t, wrap([]record{}, false))
	s := sizeOf(t, items[0])
	// two items cost 2s plus one separator byte; the ceiling itself is excluded
	ceiling := overhead + 2*s + 2

	first, err := Plan(items, 0, ceiling, wrap)
	if err != nil {
		t.Fatalf("plan offset 0: %v", err)
	}
	if len(first.Items) != 2 || !first.MoreAvailable {
		t.Fatalf("unexpected first page: len=%d more=%v", len(first.Items), first.MoreAvailable)
	}
	if !reflect.DeepEqual(first.Items, items[:2]) {
		t.Fatalf("first page mismatch: %+v", first.Items)
	}

	second, err := Plan(items, 2, ceiling, wrap)
	if err != nil {
		t.Fatalf("plan offset 2: %v", err)
	}
	if len(second.Items) != 2 || second.MoreAvailable {
		t.Fatalf("unexpected second page: len=%d more=%v", len(second.Items), second.MoreAvailable)
	}
	if !reflect.DeepEqual(second.Items, items[2:]) {
		t.Fatalf("second page mismatch: %+v", second.Items)
	}
}

func TestPlanExactCeilingIsExcluded(t *testing.T) {
	items := uniformRecords(4)
	overhead := sizeOf(t, wrap([]record{}, false))
	s := sizeOf(t, items[0])

	page, err := Plan(items, 0, overhead+2*s+1, wrap)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(page.Items) != 1 || !page.MoreAvailable {
		t.Fatalf("page reaching the ceiling must drop its last item: len=%d more=%v", len(page.Items), page.MoreAvailable)
	}
}

func TestPlanReassemblesSequence(t *testing.T) {
	items := make([]record, 50)
	largest := 0
	for i := range items {
		items[i] = record{ID: i + 1, Name: strings.Repeat("n", i%7+1)}
		largest = max(largest, sizeOf(t, items[i]))
	}
	overhead := sizeOf(t, wrap([]record{}, false))

	for _, ceiling := range []int{overhead + largest + 1, overhead + 3*largest, overhead + 10*largest, 1 << 20} {
		var rebuilt []record
		offset := 0
		for calls := 0; ; calls++ {
			if calls > len(items) {
				t.Fatalf("ceiling=%d: pagination did not terminate", ceiling)
			}
			page, err := Plan(items, offset, ceiling, wrap)
			if err != nil {
				t.Fatalf("ceiling=%d offset=%d: %v", ceiling, offset, err)
			}
			if len(page.Items) == 0 {
				t.Fatalf("ceiling=%d offset=%d: empty page", ceiling, offset)
			}
			if got := sizeOf(t, wrap(page.Items, false)); got >= ceiling {
				t.Fatalf("ceiling=%d offset=%d: encoded page is %d bytes", ceiling, offset, got)
			}
			rebuilt = append(rebuilt, page.Items...)
			offset += len(page.Items)
			if !page.MoreAvailable {
				break
			}
		}
		if !reflect.DeepEqual(rebuilt, items) {
			t.Fatalf("ceiling=%d: reassembled sequence differs", ceiling)
		}
	}
}

func TestPlanItemExceedsCapacity(t *testing.T) {
	items := []record{{ID: 1, Name: "abc"}, {ID: 2, Name: "a"}}
	overhead := sizeOf(t, wrap([]record{}, false))
	smallest := sizeOf(t, items[1])

	for _, ceiling := range []int{overhead + smallest, overhead + smallest - 1, 0} {
		_, err := Plan(items, 0, ceiling, wrap)
		if !errors.Is(err, ErrItemExceedsCapacity) {
			t.Fatalf("ceiling=%d: expected ErrItemExceedsCapacity, got %v", ceiling, err)
		}
	}
}

func TestPlanOffsetPastEnd(t *testing.T) {
	items := uniformRecords(3)
	for _, offset := range []int{3, 4, 1000} {
		page, err := Plan(items, offset, 1<<20, wrap)
		if err != nil {
			t.Fatalf("offset=%d: %v", offset, err)
		}
		if len(page.Items) != 0 || page.MoreAvailable {
			t.Fatalf("offset=%d: unexpected page %+v", offset, page)
		}
	}
}

func TestPlanDoesNotReorder(t *testing.T) {
	items := []record{{ID: 9}, {ID: 3}, {ID: 5}}
	page, err := Plan(items, 1, 1<<20, wrap)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !reflect.DeepEqual(page.Items, items[1:]) {
		t.Fatalf("unexpected order: %+v", page.Items)
	}
}
