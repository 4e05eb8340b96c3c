package usage

import (
	"regexp"
	"strconv"
)

const (
	UnknownUID = -1

	perUserRange     = 100000
	firstAppUID      = 10000
	firstIsolatedUID = 99000
)

// u<user>a<app>, u<user>s<system>, u<user>i<isolated>
var formattedUID = regexp.MustCompile(`^u(\d+)([asi])(\d+)$`)

// ParseUID decodes the UID tokens printed by batterystats. Plain integers
// pass through; anything unrecognized is UnknownUID.
func ParseUID(token string) int {
	if m := formattedUID.FindStringSubmatch(token); m != nil {
		user, err1 := strconv.Atoi(m[1])
		id, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil {
			return UnknownUID
		}

		base := user * perUserRange
		switch m[2] {
		case "a":
			return base + firstAppUID + id
		case "i":
			return base + firstIsolatedUID + id
		default:
			return base + id
		}
	}

	uid, err := strconv.Atoi(token)
	if err != nil || uid < 0 {
		return UnknownUID
	}
	return uid
}
