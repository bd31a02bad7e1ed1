package backend

import (
	"os"
	"strings"
	"testing"

	"minicc/src/util"
)

func TestWriteTempRoundTripsModuleText(t *testing.T) {
	const src = "; dummy module\n"
	path, err := writeTemp(src)
	if err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	defer os.Remove(path)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != src {
		t.Errorf("got %q, want %q", got, src)
	}
	if !strings.HasSuffix(path, ".ll") {
		t.Errorf("expected a .ll temp file, got %s", path)
	}
}

func TestOutputPathDefaultsToStdoutMarker(t *testing.T) {
	if got := outputPath(util.Options{}); got != "-" {
		t.Errorf("expected the stdout marker, got %q", got)
	}
	if got := outputPath(util.Options{Out: "a.out"}); got != "a.out" {
		t.Errorf("expected a.out, got %q", got)
	}
}
