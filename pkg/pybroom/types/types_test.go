package types

import (
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.expected {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestCandidateHumanSize(t *testing.T) {
	c := Candidate{Path: "/tmp/__pycache__", Kind: KindPycache, Size: 2 * KiB, IsDir: true}
	if got := c.HumanSize(); got != "2.0 KiB" {
		t.Errorf("HumanSize() = %q, want %q", got, "2.0 KiB")
	}
}

func TestScanSummaryTotalSizeMB(t *testing.T) {
	s := ScanSummary{TotalSize: 5 * MiB}
	if got := s.TotalSizeMB(); got != 5.0 {
		t.Errorf("TotalSizeMB() = %v, want 5.0", got)
	}

	half := ScanSummary{TotalSize: MiB / 2}
	if got := half.TotalSizeMB(); got != 0.5 {
		t.Errorf("TotalSizeMB() = %v, want 0.5", got)
	}
}

func TestCleanSummaryBytesFreedMB(t *testing.T) {
	s := CleanSummary{BytesFreed: 3 * MiB}
	if got := s.BytesFreedMB(); got != 3.0 {
		t.Errorf("BytesFreedMB() = %v, want 3.0", got)
	}
}

func TestRuleKindLabel(t *testing.T) {
	for _, kind := range Kinds {
		if kind.Label() == string(kind) {
			t.Errorf("kind %q has no label", kind)
		}
	}
	if got := RuleKind("mystery").Label(); got != "mystery" {
		t.Errorf("unknown kind label = %q, want passthrough", got)
	}
}

func TestKindsCoverConstants(t *testing.T) {
	expected := map[RuleKind]bool{
		KindPycache: true,
		KindPyc:     true,
		KindVenv:    true,
		KindJupyter: true,
		KindTemp:    true,
		KindBuild:   true,
	}
	if len(Kinds) != len(expected) {
		t.Fatalf("Kinds has %d entries, want %d", len(Kinds), len(expected))
	}
	for _, k := range Kinds {
		if !expected[k] {
			t.Errorf("unexpected kind %q", k)
		}
	}
}
