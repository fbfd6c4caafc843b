package mongo

import "testing"

// Lookups and upserts key on the exact name so they use the _id index and never fold case.
func TestConsumableNameFilter_ExactID(t *testing.T) {
	for _, name := range []string{"Apple", "apple", "Greek Yogurt"} {
		f := consumableNameFilter(name)
		if len(f) != 1 {
			t.Fatalf("filter = %v, want a single _id clause", f)
		}
		if got, ok := f["_id"].(string); !ok || got != name {
			t.Errorf("filter = %v, want _id equal to %q", f, name)
		}
	}
}
