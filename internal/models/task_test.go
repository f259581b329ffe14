package models

import "testing"

func TestPriority(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
		if p.Label() == "" {
			t.Errorf("%q has no label", p)
		}
	}

	if Priority("XX").Valid() {
		t.Error("unknown code reported valid")
	}
	if got := Priority("XX").Label(); got != "" {
		t.Errorf("unknown code label = %q, want empty", got)
	}
	if got := PriorityMedium.Label(); got != "Medium" {
		t.Errorf("Medium label = %q", got)
	}
}
