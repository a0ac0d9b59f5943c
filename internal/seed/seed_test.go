package seed

import (
	"strings"
	"testing"
)

func TestDefaultSystems_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range DefaultSystems {
		k := strings.ToLower(s)
		if seen[k] {
			t.Fatalf("duplicate system %q", s)
		}
		seen[k] = true
	}
	if len(seen) == 0 {
		t.Fatal("catalog must not be empty")
	}
}
