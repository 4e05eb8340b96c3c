// Package thermal enumerates /sys/class/thermal zones and resolves which one
// reports a given component's temperature.
package thermal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"xtra-telemetry/internal/shell"
)

const maxValidTempC = 150

// ListZonesCommand prints one "<index>:<type>" line per zone.
const ListZonesCommand = `for z in /sys/class/thermal/thermal_zone*; do echo "${z#/sys/class/thermal/thermal_zone}:$(cat $z/type 2>/dev/null)"; done`

type Zone struct {
	Index int
	Type  string
}

func ZonePath(index int) string {
	return fmt.Sprintf("/sys/class/thermal/thermal_zone%d/temp", index)
}

func ListZones(ctx context.Context, exec shell.Executor) ([]Zone, error) {
	out, err := exec.Execute(ctx, ListZonesCommand)
	if err != nil {
		return nil, fmt.Errorf("list thermal zones: %w", err)
	}

	return parseZones(out), nil
}

func parseZones(out string) []Zone {
	var zones []Zone

	for _, line := range strings.Split(out, "\n") {
		idx, typ, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		n, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}

		zones = append(zones, Zone{Index: n, Type: strings.TrimSpace(typ)})
	}

	return zones
}

// ReadTemp returns degrees Celsius. Zones report millidegrees, decidegrees
// or whole degrees depending on the driver.
func ReadTemp(ctx context.Context, exec shell.Executor, path string) (float64, bool) {
	raw, err := shell.ReadFloat(ctx, exec, path)
	if err != nil {
		return 0, false
	}

	t := NormalizeTemp(raw)
	if t <= 0 || t >= maxValidTempC {
		return 0, false
	}

	return t, true
}

func NormalizeTemp(raw float64) float64 {
	switch {
	case raw >= 1000:
		return raw / 1000
	case raw >= 200:
		return raw / 10
	default:
		return raw
	}
}
