package profile

import "testing"

func TestWithLabel(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		label    string
		expected string
	}{
		{"joins label under path", "/cache/pprof", "foo", "/cache/pprof/foo"},
		{"blank label is no-op", "/cache/pprof", "", "/cache/pprof"},
		{"blank path is no-op", "", "foo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config = func() (string, string, bool) { return "cpu", tt.path, false }
			cfg = WithLabel(tt.label)(cfg)

			_, path, _ := cfg()
			if path != tt.expected {
				t.Errorf("expected path %q, got %q", tt.expected, path)
			}
		})
	}
}

func TestWithLabel_PreservesModeAndQuiet(t *testing.T) {
	var cfg Config = func() (string, string, bool) { return "mem", "/cache", true }
	cfg = WithLabel("bar")(cfg)

	mode, path, quiet := cfg()
	if mode != "mem" {
		t.Errorf("expected mode to be preserved, got %q", mode)
	}
	if path != "/cache/bar" {
		t.Errorf("expected path to be namespaced, got %q", path)
	}
	if !quiet {
		t.Error("expected quiet to be preserved")
	}
}
