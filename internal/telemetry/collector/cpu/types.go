package cpu

import (
	"errors"
	"fmt"
	"sync"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/collector/thermal"
)

const (
	cpuRoot  = "/sys/devices/system/cpu"
	procStat = "/proc/stat"

	// maxCores bounds the existence probe; discovery stops at the first gap.
	maxCores = 16

	governorOffline = "offline"
	governorUnknown = "unknown"
)

var ErrNoCores = errors.New("no cpu cores discovered")

var DefaultGovernors = []string{"schedutil", "performance", "powersave", "ondemand", "conservative"}

var (
	nameTokens  = []string{"cpu", "cpuss"}
	looseTokens = []string{"tsens", "soc", "pa"}
)

type Collector struct {
	exec shell.Executor
	log  logger.Logger
	temp *thermal.Resolver

	topoMu sync.Mutex
	topo   *topology

	polled loadWindow
	live   loadWindow
}

// loadWindow is the prior /proc/stat sample of one polling consumer.
type loadWindow struct {
	mu   sync.Mutex
	prev loadSample
}

type topology struct {
	cores     []int
	clusters  []domain.ClusterInfo
	clusterOf map[int]int
}

type loadSample struct {
	idle  uint64
	total uint64
}

func corePath(core int) string {
	return fmt.Sprintf("%s/cpu%d", cpuRoot, core)
}

func policyPath(core int) string {
	return fmt.Sprintf("%s/cpu%d/cpufreq", cpuRoot, core)
}

func freqPath(core int, file string) string {
	return policyPath(core) + "/" + file
}

func kHzToMHz(khz int64) int64 {
	return khz / 1000
}
