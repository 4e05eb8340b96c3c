package usage

import (
	"errors"
	"math"
	"testing"

	"xtra-telemetry/internal/logger"
)

func TestParseUID(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{token: "u0a196", want: 10196},
		{token: "u0a0", want: 10000},
		{token: "u10a5", want: 1010005},
		{token: "u0s1000", want: 1000},
		{token: "u0i12", want: 99012},
		{token: "1000", want: 1000},
		{token: "0", want: 0},
		{token: "wifi", want: UnknownUID},
		{token: "u0ax", want: UnknownUID},
		{token: "-5", want: UnknownUID},
		{token: "", want: UnknownUID},
	}

	for _, tt := range tests {
		if got := ParseUID(tt.token); got != tt.want {
			t.Errorf("ParseUID(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestParseLiteralBlock(t *testing.T) {
	dump := "Estimated power use (mAh):\n" +
		"  Uid u0a123: 12.50 (8.2%)\n" +
		"  Uid 1000: 5.00 (3.0%)\n" +
		"  Uid u0a999: 0.01 (0.0%)\n"

	entries := Parse(dump, logger.Discard())

	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].UID != 10123 || entries[0].Percent != 8.2 || entries[0].MAh != 12.5 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].UID != 1000 || entries[1].Percent != 3.0 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestParseFullDump(t *testing.T) {
	dump := `Battery History (2% used, 5980 used of 256KB, 45 strings using 2794):
  Uid u0a55: not part of the section
Statistics since last charge:
  System starts: 0, currently on battery: true
  Estimated power use (mAh):
    Capacity: 4500, Computed drain: 200, actual drain: 180-220
    Global
    screen: 40.0 (20.0%)
    (something else)
    Uid u0a50: 30.0 (15.0%)
    UID u0a61: 20.0
    uid 1041: 10.0 ( cpu=3.0 wake=7.0 )
    Uid 0: 60.0 (30.0%)
    Uid u0a70: broken (1.0%)
    Uid u0a71 12.0 (1.0%)
    Uid u0a72: 5.0 (x%)
  Per-app mobile ms per packet: 0
    Uid u0a80: 99.0 (49.5%)
`

	entries := Parse(dump, logger.Discard())

	want := []struct {
		uid     int
		percent float64
	}{
		{uid: 0, percent: 30},
		{uid: 10050, percent: 15},
		{uid: 10061, percent: 10},
		{uid: 1041, percent: 5},
	}

	if len(entries) != len(want) {
		t.Fatalf("Parse() = %+v, want %d entries", entries, len(want))
	}
	for i, w := range want {
		if entries[i].UID != w.uid || math.Abs(entries[i].Percent-w.percent) > 1e-9 {
			t.Errorf("entries[%d] = %+v, want uid %d at %v%%", i, entries[i], w.uid, w.percent)
		}
	}
}

func TestParseStopsAtSectionHeaders(t *testing.T) {
	dump := "Estimated power use (mAh):\n" +
		"  Uid u0a1: 1.0 (1.0%)\n" +
		"\n" +
		"Per-UID stats:\n" +
		"  Uid u0a2: 2.0 (2.0%)\n" +
		"  All partial wake locks:\n" +
		"  Uid u0a3: 3.0 (3.0%)\n"

	entries := Parse(dump, logger.Discard())
	if len(entries) != 2 || entries[0].UID != 10002 || entries[1].UID != 10001 {
		t.Errorf("Parse() = %+v, want u0a2 then u0a1", entries)
	}
}

func TestParseUnindentedEntries(t *testing.T) {
	dump := "Estimated power use (mAh):\n" +
		"Uid u0a123: 12.50 (8.2%)\n" +
		"Uid 1000: 5.00 (3.0%)\n"

	entries := Parse(dump, logger.Discard())
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].UID != 10123 || entries[1].UID != 1000 {
		t.Errorf("Parse() = %+v", entries)
	}
}

func TestParseWithoutSection(t *testing.T) {
	if entries := Parse("Uid u0a1: 1.0 (1.0%)\n", logger.Discard()); len(entries) != 0 {
		t.Errorf("Parse() = %+v, want none", entries)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		kind    lineKind
		wantErr error
	}{
		{name: "blank", line: "   ", kind: lineSkip},
		{name: "unindented header", line: "Statistics since last charge:", kind: lineSkip},
		{name: "unindented entry", line: "Uid u0a1: 1.0 (1.0%)", kind: lineEntry},
		{name: "per-app", line: "  Per-app mobile ms per packet: 0", kind: lineExit},
		{name: "partial", line: "  All partial wake locks:", kind: lineExit},
		{name: "capacity", line: "    Capacity: 4000, Computed drain: 310", kind: lineCapacity},
		{name: "global", line: "    Global", kind: lineSkip},
		{name: "unrelated", line: "    Wifi: 3.0", kind: lineSkip},
		{name: "entry", line: "    Uid u0a1: 1.0 (1.0%)", kind: lineEntry},
		{name: "no colon", line: "    Uid u0a1 1.0", kind: lineEntry, wantErr: errNoColon},
		{name: "no value", line: "    Uid u0a1:", kind: lineEntry, wantErr: errNoValue},
		{name: "bad mah", line: "    Uid u0a1: x (1.0%)", kind: lineEntry, wantErr: errBadMAh},
		{name: "bad percent", line: "    Uid u0a1: 1.0 (y%)", kind: lineEntry, wantErr: errBadPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.line)
			if got.kind != tt.kind {
				t.Errorf("kind = %v, want %v", got.kind, tt.kind)
			}
			if !errors.Is(got.err, tt.wantErr) {
				t.Errorf("err = %v, want %v", got.err, tt.wantErr)
			}
		})
	}
}

func TestComputedDrain(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "Capacity: 4500, Computed drain: 1234, actual drain: 1100-1300", want: 1234},
		{in: "Capacity: 4500, Computed drain: 98.5", want: 98.5},
		{in: "Capacity: 4500", want: 0},
		{in: "Capacity: 4500, Computed drain: n/a", want: 0},
	}

	for _, tt := range tests {
		if got := computedDrain(tt.in); got != tt.want {
			t.Errorf("computedDrain(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
