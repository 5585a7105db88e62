package calvin

import (
	"testing"
)

func TestParseParamPath(t *testing.T) {
	tests := []struct {
		path    string
		objPath string
		name    string
		wantErr bool
	}{
		{"/@affymetrix-algorithm-name", "/", "affymetrix-algorithm-name", false},
		{"/MultiData/Genotype@note", "/MultiData/Genotype", "note", false},
		{"MultiData/Genotype/@note", "/MultiData/Genotype", "note", false},
		{"/parent[0]@x", "/parent[0]", "x", false},
		{"/MultiData/Genotype", "", "", true},
		{"/MultiData@", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		objPath, name, err := ParseParamPath(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseParamPath(%q) expected error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseParamPath(%q) error: %v", tt.path, err)
			continue
		}
		if objPath != tt.objPath || name != tt.name {
			t.Errorf("ParseParamPath(%q) = (%q, %q), want (%q, %q)", tt.path, objPath, name, tt.objPath, tt.name)
		}
		o2, n2, err := ParseParamPath(JoinParamPath(objPath, name))
		if err != nil || o2 != objPath || n2 != name {
			t.Errorf("JoinParamPath(%q, %q) does not round trip", objPath, name)
		}
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		path  string
		parts int
		clean string
	}{
		{"/", 0, "/"},
		{"", 0, "/"},
		{"MultiData", 1, "/MultiData"},
		{"/MultiData/Genotype/", 2, "/MultiData/Genotype"},
		{"//a//b", 2, "/a/b"},
	}
	for _, tt := range tests {
		if got := len(SplitPath(tt.path)); got != tt.parts {
			t.Errorf("SplitPath(%q) has %d parts, want %d", tt.path, got, tt.parts)
		}
		if got := CleanPath(tt.path); got != tt.clean {
			t.Errorf("CleanPath(%q) = %q, want %q", tt.path, got, tt.clean)
		}
	}
	if got := JoinTablePath("MultiData", "Genotype"); got != "/MultiData/Genotype" {
		t.Errorf("JoinTablePath = %q", got)
	}
}
