package thermal

import (
	"context"
	"testing"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell/shelltest"
)

var gpuTiers = []Tier{
	{Source: domain.TempSourceName, Tokens: []string{"gpu", "adreno", "mali", "3d"}},
	{Source: domain.TempSourceLoose, Tokens: []string{"gpuss", "gpu-", "kgsl"}},
}

func TestParseZones(t *testing.T) {
	zones := parseZones("0:aoss0-usr\n1:cpu-0-0-usr\nbogus\nx:skip\n12:\n")

	if len(zones) != 3 {
		t.Fatalf("parseZones() = %v, want 3 zones", zones)
	}
	if zones[1].Index != 1 || zones[1].Type != "cpu-0-0-usr" {
		t.Errorf("zones[1] = %+v", zones[1])
	}
	if zones[2].Index != 12 || zones[2].Type != "" {
		t.Errorf("zones[2] = %+v", zones[2])
	}
}

func TestNormalizeTemp(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{raw: 45000, want: 45},
		{raw: 452, want: 45.2},
		{raw: 45, want: 45},
	}

	for _, tt := range tests {
		if got := NormalizeTemp(tt.raw); got != tt.want {
			t.Errorf("NormalizeTemp(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestResolverNameMatch(t *testing.T) {
	fake := shelltest.New().
		SetOutput(ListZonesCommand, "0:aoss0-usr\n1:cpu-0-0-usr\n2:gpuss-0-usr\n").
		SetFile(ZonePath(0), "33000").
		SetFile(ZonePath(1), "48000").
		SetFile(ZonePath(2), "51000")

	r := NewResolver(fake, logger.Discard(), true, gpuTiers...)

	temp, src := r.Read(context.Background())
	if temp != 51 || src != domain.TempSourceName {
		t.Fatalf("Read() = %v, %q; want 51, name", temp, src)
	}

	fake.ResetCalls()
	temp, src = r.Read(context.Background())
	if temp != 51 || src != domain.TempSourceName {
		t.Errorf("cached Read() = %v, %q", temp, src)
	}
	if fake.Total() != 1 {
		t.Errorf("cached read used %d commands, want 1", fake.Total())
	}
}

func TestResolverSkipsInvalidReadings(t *testing.T) {
	fake := shelltest.New().
		SetOutput(ListZonesCommand, "3:gpu0\n4:kgsl-3d0\n").
		SetFile(ZonePath(3), "0").
		SetFile(ZonePath(4), "160000")

	r := NewResolver(fake, logger.Discard(), false, gpuTiers...)

	if temp, src := r.Read(context.Background()); temp != 0 || src != domain.TempSourceUnknown {
		t.Errorf("Read() = %v, %q; want 0, unknown", temp, src)
	}
}

func TestResolverHeuristicTier(t *testing.T) {
	fake := shelltest.New().
		SetOutput(ListZonesCommand, "0:battery\n4:xo-therm\n5:tz5\n6:tz6\n16:tz16\n").
		SetFile(ZonePath(4), "30000").
		SetFile(ZonePath(5), "0").
		SetFile(ZonePath(6), "41000").
		SetFile(ZonePath(16), "50000")

	r := NewResolver(fake, logger.Discard(), true, gpuTiers...)

	temp, src := r.Read(context.Background())
	if temp != 41 || src != domain.TempSourceHeuristic {
		t.Errorf("Read() = %v, %q; want 41, heuristic", temp, src)
	}
}

func TestResolverRediscoversAfterFailure(t *testing.T) {
	fake := shelltest.New().
		SetOutput(ListZonesCommand, "2:gpu\n7:gpuss-1\n").
		SetFile(ZonePath(2), "50000").
		SetFile(ZonePath(7), "52000")

	r := NewResolver(fake, logger.Discard(), false, gpuTiers...)
	if temp, _ := r.Read(context.Background()); temp != 50 {
		t.Fatalf("Read() = %v, want 50", temp)
	}

	fake.RemoveFile(ZonePath(2))

	temp, src := r.Read(context.Background())
	if temp != 52 || src != domain.TempSourceName {
		t.Errorf("Read() after failure = %v, %q; want 52, name", temp, src)
	}
}
