package modules

import "testing"

func TestDefaultModuleIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.ID()] {
			t.Fatalf("duplicate module id %q", m.ID())
		}
		seen[m.ID()] = true
	}
	for _, id := range []string{"public", "checkout", "success"} {
		if !seen[id] {
			t.Fatalf("missing module %q", id)
		}
	}
}
