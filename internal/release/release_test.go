package release

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		explicit string
		tag      string
		want     string
	}{
		{"explicit wins", "billing", "billing@2.0.0", "v1.0.0", "billing@2.0.0"},
		{"semver tag", "billing", "", "v1.4.2", "billing@1.4.2"},
		{"semver tag without prefix", "billing", "", "1.4.2", "billing@1.4.2"},
		{"semver tag without service", "", "", "v1.4.2", "1.4.2"},
		{"non semver tag passes through", "billing", "", "sha-5f2c9e1", "sha-5f2c9e1"},
		{"nothing set", "billing", "", "", ""},
		{"whitespace only", "billing", "  ", " ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.service, tt.explicit, tt.tag); got != tt.want {
				t.Errorf("Name(%q, %q, %q) = %q, want %q", tt.service, tt.explicit, tt.tag, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	v, ok := Parse("v3.10.7")
	if !ok || v != (Version{Major: 3, Minor: 10, Patch: 7}) {
		t.Fatalf("unexpected parse result: %v %v", v, ok)
	}
	for _, bad := range []string{"v1.2", "v1.2.x", "latest", "v-1.0.0", ""} {
		if _, ok := Parse(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
	if !Less(Version{1, 2, 3}, Version{1, 3, 0}) {
		t.Error("expected 1.2.3 < 1.3.0")
	}
}
