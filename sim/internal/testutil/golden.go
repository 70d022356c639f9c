// Package testutil provides shared test infrastructure for the cpusim scheduler.
// It consolidates golden trace loading and assertion helpers used across
// sim/ and sim/workload/ test packages.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// GoldenPath resolves a file under the repo root testdata/ directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func GoldenPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// LoadGoldenLines reads a golden trace file and returns its non-empty lines.
func LoadGoldenLines(t *testing.T, name string) []string {
	t.Helper()

	data, err := os.ReadFile(GoldenPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", name, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// AssertLinesEqual compares a produced trace with a golden one, reporting the first divergence.
func AssertLinesEqual(t *testing.T, want, got []string) {
	t.Helper()
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			t.Fatalf("trace diverges at line %d:\n got: %q\nwant: %q", i+1, got[i], want[i])
		}
	}
	if len(want) != len(got) {
		t.Fatalf("trace length: got %d lines, want %d", len(got), len(want))
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
