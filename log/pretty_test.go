package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestOrderAttrs_PromotesSubjectKeysInOrder(t *testing.T) {
	keys := []string{"path", "url"}
	attrs := []slog.Attr{
		slog.String("matches", "2"),
		slog.String("url", "foo.less"),
		slog.String("keep-last", "true"),
		slog.String("path", ".button.large"),
	}

	ordered := orderAttrs(keys, attrs)

	if len(ordered) != len(attrs) {
		t.Fatalf("expected %d attrs, got %d", len(attrs), len(ordered))
	}
	if ordered[0].Key != "path" || ordered[1].Key != "url" {
		t.Errorf("expected path then url first, got %q then %q", ordered[0].Key, ordered[1].Key)
	}
	// non-subject keys keep their relative order after the promoted ones.
	if ordered[2].Key != "matches" || ordered[3].Key != "keep-last" {
		t.Errorf("expected matches then keep-last to trail in original order, got %q then %q",
			ordered[2].Key, ordered[3].Key)
	}
}

func TestLogger_Subject_PromotesPathInPrettyText(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	logger.Subject(".mixin.path").Info("mixin resolved", slog.Int("matches", 1))

	output := buf.String()
	pathIdx := strings.Index(output, "path=")
	matchesIdx := strings.Index(output, "matches=")

	if pathIdx == -1 || matchesIdx == -1 {
		t.Fatalf("expected both path and matches attrs in output, got: %s", output)
	}
	if pathIdx > matchesIdx {
		t.Errorf("expected path to be promoted ahead of matches, got: %s", output)
	}
	if !strings.Contains(output, colorSubject) {
		t.Errorf("expected subject color escape in output, got: %s", output)
	}
}

func TestWithSubjectKeys_OverridesDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(true), WithSubjectKeys("component"))

	logger.With(slog.String("path", "foo")).Info("test", slog.String("component", "parser"))

	output := buf.String()
	pathIdx := strings.Index(output, "path=")
	componentIdx := strings.Index(output, "component=")

	if pathIdx == -1 || componentIdx == -1 {
		t.Fatalf("expected both attrs in output, got: %s", output)
	}
	if componentIdx > pathIdx {
		t.Errorf("expected component (overridden subject key) to be promoted ahead of path, got: %s", output)
	}
}
