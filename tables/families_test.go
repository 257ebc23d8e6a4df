package tables

import "testing"

func TestFamilyScopes(t *testing.T) {
	tests := []struct {
		family string
		chara  bool
		global bool
	}{
		{"ABL", true, false},
		{"TALENT", true, false},
		{"PALAM", true, false},
		{"FLAG", false, true},
		{"STR", false, true},
		// The game keeps a per-character and a global table under the
		// same name.
		{"CFLAG", true, true},
		{"ITEM", false, false},
	}
	for _, tt := range tests {
		if got := IsChara(tt.family); got != tt.chara {
			t.Errorf("IsChara(%q) = %v, want %v", tt.family, got, tt.chara)
		}
		if got := IsGlobal(tt.family); got != tt.global {
			t.Errorf("IsGlobal(%q) = %v, want %v", tt.family, got, tt.global)
		}
	}
}
