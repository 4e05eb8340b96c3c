package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"xtra-telemetry/internal/shell"
)

const listPackagesCommand = "cmd package list packages -U -f"

var ErrIndexUnavailable = errors.New("package index unavailable")

// systemNames covers the fixed Android IDs (android_filesystem_config.h)
// that show up in batterystats.
var systemNames = map[int]string{
	1001: "Cellular Radio",
	1002: "Bluetooth",
	1003: "Graphics",
	1010: "Wi-Fi",
	1013: "Media Server",
	1019: "DRM Server",
	1021: "GPS",
	1027: "NFC",
	1041: "Audio Server",
	1046: "Media Codec",
	1047: "Camera Server",
	1068: "Secure Element",
	1073: "Network Stack",
	2000: "Shell",
	9999: "Nobody",
}

type pkgRecord struct {
	name string
	apk  string
}

// ShellResolver answers identity lookups from `cmd package list packages`.
// Refresh rebuilds the index; lookups before the first successful refresh
// fail with ErrIndexUnavailable.
type ShellResolver struct {
	exec shell.Executor

	mu     sync.RWMutex
	byUID  map[int][]pkgRecord
	byName map[string]pkgRecord
}

func NewShellResolver(exec shell.Executor) *ShellResolver {
	return &ShellResolver{exec: exec}
}

func (r *ShellResolver) Refresh(ctx context.Context) error {
	out, err := shell.Run(ctx, r.exec, listPackagesCommand)
	if err != nil {
		return fmt.Errorf("failed to list packages: %w", err)
	}

	byUID, byName := parsePackageList(out)

	r.mu.Lock()
	r.byUID, r.byName = byUID, byName
	r.mu.Unlock()

	return nil
}

// parsePackageList reads lines of the form
// "package:/data/app/~~x==/com.foo-y==/base.apk=com.foo uid:10123".
func parsePackageList(out string) (map[int][]pkgRecord, map[string]pkgRecord) {
	byUID := make(map[int][]pkgRecord)
	byName := make(map[string]pkgRecord)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "package:"))

		entry, uidPart, ok := strings.Cut(line, " uid:")
		if !ok {
			continue
		}

		uid, err := strconv.Atoi(strings.TrimSpace(uidPart))
		if err != nil {
			continue
		}

		i := strings.LastIndex(entry, "=")
		if i <= 0 || i == len(entry)-1 {
			continue
		}

		rec := pkgRecord{apk: entry[:i], name: entry[i+1:]}
		byUID[uid] = append(byUID[uid], rec)
		byName[rec.name] = rec
	}

	return byUID, byName
}

func (r *ShellResolver) NameForUID(_ context.Context, uid int) (string, error) {
	if name, ok := systemNames[uid]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no name for uid %d", uid)
}

// PackagesForUID matches secondary users by app id, since the package list
// only reports the primary user's UIDs.
func (r *ShellResolver) PackagesForUID(_ context.Context, uid int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.byUID == nil {
		return nil, ErrIndexUnavailable
	}

	recs, ok := r.byUID[uid]
	if !ok {
		recs = r.byUID[uid%perUserRange]
	}

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.name)
	}
	return names, nil
}

// AppInfo has no access to resource labels from the shell, so the label is
// the package name and the icon handle is the APK path.
func (r *ShellResolver) AppInfo(_ context.Context, pkg string) (string, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byName[pkg]
	if !ok {
		return "", "", fmt.Errorf("package %s not indexed", pkg)
	}
	return rec.name, rec.apk, nil
}
