package gpu

import (
	"context"
	"regexp"
	"strings"

	"xtra-telemetry/internal/shell"
)

const (
	surfaceFlingerCommand = "dumpsys SurfaceFlinger | grep -m1 GLES"
	propHardware          = "getprop ro.hardware"
	propPlatform          = "getprop ro.board.platform"
)

var adrenoModel = regexp.MustCompile(`(?i)^adreno\s*(\d+)`)

// Identity returns vendor and renderer, resolved once per collector.
func (c *Collector) Identity(ctx context.Context) (string, string) {
	c.idMu.Lock()
	cached := c.identity
	c.idMu.Unlock()

	if cached != nil {
		return cached.vendor, cached.renderer
	}

	id := c.resolveIdentity(ctx)
	if id.vendor == unknown && id.renderer == unknown {
		return unknown, unknown
	}

	c.idMu.Lock()
	c.identity = &id
	c.idMu.Unlock()

	return id.vendor, id.renderer
}

func (c *Collector) resolveIdentity(ctx context.Context) identity {
	if id, ok := c.fromModelFile(ctx); ok {
		return id
	}
	if id, ok := c.fromSurfaceFlinger(ctx); ok {
		return id
	}
	if id, ok := c.fromPlatform(ctx); ok {
		return id
	}

	c.log.Debug("gpu identity unresolved")
	return identity{vendor: unknown, renderer: unknown}
}

func (c *Collector) fromModelFile(ctx context.Context) (identity, bool) {
	for _, path := range modelPaths {
		model, err := shell.ReadFile(ctx, c.exec, path)
		if err != nil {
			continue
		}

		renderer := prettyModel(model)
		return identity{vendor: vendorFromRenderer(renderer), renderer: renderer}, true
	}
	return identity{}, false
}

// fromSurfaceFlinger parses "GLES: <vendor>, <renderer>, <version>".
func (c *Collector) fromSurfaceFlinger(ctx context.Context) (identity, bool) {
	out, err := shell.Run(ctx, c.exec, surfaceFlingerCommand)
	if err != nil {
		return identity{}, false
	}

	return parseGLES(out)
}

func parseGLES(line string) (identity, bool) {
	_, rest, ok := strings.Cut(line, "GLES:")
	if !ok {
		return identity{}, false
	}

	parts := strings.Split(rest, ",")
	if len(parts) < 2 {
		return identity{}, false
	}

	vendor := strings.TrimSpace(parts[0])
	renderer := strings.TrimSpace(parts[1])
	if renderer == "" {
		return identity{}, false
	}

	if guessed := vendorFromRenderer(renderer); guessed != unknown {
		vendor = guessed
	}
	if vendor == "" {
		vendor = unknown
	}

	return identity{vendor: vendor, renderer: renderer}, true
}

// fromPlatform falls back to the raw hardware name when neither property
// names a known SoC family.
func (c *Collector) fromPlatform(ctx context.Context) (identity, bool) {
	var raw string

	for _, cmd := range []string{propHardware, propPlatform} {
		platform, err := shell.Run(ctx, c.exec, cmd)
		if err != nil {
			continue
		}

		if vendor := vendorFromPlatform(platform); vendor != unknown {
			return identity{vendor: vendor, renderer: platform}, true
		}
		if raw == "" {
			raw = platform
		}
	}

	if raw == "" {
		return identity{}, false
	}
	return identity{vendor: unknown, renderer: raw}, true
}

// prettyModel turns kgsl's "Adreno660v2" into "Adreno 660".
func prettyModel(model string) string {
	if m := adrenoModel.FindStringSubmatch(model); m != nil {
		return "Adreno " + m[1]
	}
	return strings.TrimSpace(model)
}

func vendorFromRenderer(renderer string) string {
	r := strings.ToLower(renderer)

	switch {
	case strings.Contains(r, "adreno"):
		return "Qualcomm"
	case strings.Contains(r, "mali"), strings.Contains(r, "immortalis"):
		return "ARM"
	case strings.Contains(r, "powervr"):
		return "Imagination Technologies"
	case strings.Contains(r, "xclipse"):
		return "Samsung"
	case strings.Contains(r, "maleoon"):
		return "Huawei"
	}

	return unknown
}

func vendorFromPlatform(platform string) string {
	p := strings.ToLower(platform)

	switch {
	case p == "qcom", strings.HasPrefix(p, "msm"), strings.HasPrefix(p, "sdm"), strings.HasPrefix(p, "sm"),
		p == "lahaina", p == "taro", p == "kalama", p == "pineapple", p == "kona":
		return "Qualcomm"
	case strings.HasPrefix(p, "mt"):
		return "ARM"
	case strings.HasPrefix(p, "exynos"), strings.HasPrefix(p, "s5e"):
		return "Samsung"
	case strings.HasPrefix(p, "kirin"):
		return "Huawei"
	}

	return unknown
}
