package usage

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"

	"xtra-telemetry/internal/logger"
)

const sectionMarker = "Estimated power use (mAh):"

type Entry struct {
	UID     int
	MAh     float64
	Percent float64
}

type state int

const (
	stateSearching state = iota
	stateInSection
)

type lineKind int

const (
	lineSkip lineKind = iota
	lineExit
	lineCapacity
	lineEntry
)

type line struct {
	kind       lineKind
	entry      Entry
	hasPercent bool
	drain      float64
	err        error
}

var (
	errNoColon     = errors.New("missing ':' separator")
	errNoValue     = errors.New("missing mAh value")
	errBadMAh      = errors.New("unparseable mAh value")
	errBadPercent  = errors.New("unparseable percentage")
	errNoDrainBase = errors.New("no percentage and no computed drain")
)

// Parse extracts per-UID drain from a batterystats dump. Entries with a 0%
// share are dropped and the rest are ordered by share, highest first.
func Parse(dump string, log logger.Logger) []Entry {
	var (
		st      = stateSearching
		drain   float64
		entries []Entry
	)

scan:
	for _, raw := range strings.Split(dump, "\n") {
		switch st {
		case stateSearching:
			if strings.Contains(raw, sectionMarker) {
				st = stateInSection
			}

		case stateInSection:
			l := classifyLine(raw)

			switch l.kind {
			case lineExit:
				break scan

			case lineCapacity:
				if l.drain > 0 {
					drain = l.drain
				}

			case lineEntry:
				if l.err != nil {
					log.Debug("skipping batterystats line", "line", strings.TrimSpace(raw), "error", l.err)
					continue
				}

				e := l.entry
				if !l.hasPercent {
					if drain <= 0 {
						log.Debug("skipping batterystats line", "line", strings.TrimSpace(raw), "error", errNoDrainBase)
						continue
					}
					e.Percent = e.MAh / drain * 100
				}

				if e.Percent == 0 {
					continue
				}
				entries = append(entries, e)
			}
		}
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Percent, a.Percent)
	})

	return entries
}

// classifyLine decides what a single line inside the power section means.
// Indentation is ignored; only the Per-app and All partial headers end the
// section.
func classifyLine(raw string) line {
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		return line{kind: lineSkip}
	case strings.HasPrefix(trimmed, "Per-app"), strings.HasPrefix(trimmed, "All partial"):
		return line{kind: lineExit}
	case strings.HasPrefix(trimmed, "Capacity:"):
		return line{kind: lineCapacity, drain: computedDrain(trimmed)}
	case strings.HasPrefix(trimmed, "Global"), strings.HasPrefix(trimmed, "screen:"), strings.HasPrefix(trimmed, "("):
		return line{kind: lineSkip}
	case len(trimmed) > 4 && strings.EqualFold(trimmed[:4], "uid "):
		return parseEntry(trimmed[4:])
	}

	return line{kind: lineSkip}
}

func parseEntry(rest string) line {
	l := line{kind: lineEntry}

	token, value, ok := strings.Cut(rest, ":")
	if !ok {
		l.err = errNoColon
		return l
	}

	value = strings.TrimSpace(value)
	fields := strings.Fields(value)
	if len(fields) == 0 {
		l.err = errNoValue
		return l
	}

	mah, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		l.err = errBadMAh
		return l
	}

	l.entry = Entry{UID: ParseUID(strings.TrimSpace(token)), MAh: mah}

	open := strings.LastIndex(value, "(")
	end := strings.LastIndex(value, "%)")
	if open >= 0 && end > open {
		pct, err := strconv.ParseFloat(strings.TrimSpace(value[open+1:end]), 64)
		if err != nil {
			l.err = errBadPercent
			return l
		}
		l.entry.Percent = pct
		l.hasPercent = true
	}

	return l
}

// computedDrain reads "Computed drain: <mAh>" from a Capacity line.
func computedDrain(s string) float64 {
	_, after, ok := strings.Cut(s, "Computed drain:")
	if !ok {
		return 0
	}

	after = strings.TrimSpace(after)
	if i := strings.IndexAny(after, ", "); i >= 0 {
		after = after[:i]
	}

	v, err := strconv.ParseFloat(after, 64)
	if err != nil {
		return 0
	}
	return v
}
