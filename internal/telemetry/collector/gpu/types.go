package gpu

import (
	"errors"
	"sync"

	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/telemetry/collector/thermal"
	"xtra-telemetry/internal/telemetry/probe"
)

const (
	kgslRoot    = "/sys/class/kgsl/kgsl-3d0"
	kgslDevfreq = kgslRoot + "/devfreq"
	maliRoot    = "/sys/class/misc/mali0/device"

	unknown = "Unknown"
)

var ErrNoSignals = errors.New("no gpu frequency or load source found")

// DefaultFreqPaths is ordered from the most to the least common layout.
var DefaultFreqPaths = []string{
	kgslRoot + "/gpuclk",
	kgslDevfreq + "/cur_freq",
	kgslRoot + "/clock_mhz",
	"/sys/kernel/gpu/gpu_clock",
	maliRoot + "/clock",
	"/sys/devices/platform/mali/clock",
	"/sys/kernel/debug/ged/hal/current_freqency",
}

var DefaultBusyPaths = []string{
	kgslRoot + "/gpu_busy_percentage",
	kgslRoot + "/gpubusy",
	"/sys/kernel/gpu/gpu_busy",
	maliRoot + "/utilization",
	"/sys/devices/platform/mali/utilization",
}

var availableFreqPaths = []string{
	kgslRoot + "/gpu_available_frequencies",
	kgslDevfreq + "/available_frequencies",
	"/sys/kernel/gpu/gpu_freq_table",
}

var modelPaths = []string{
	kgslRoot + "/gpu_model",
	maliRoot + "/gpuinfo",
	"/sys/kernel/gpu/gpu_model",
}

var (
	nameTokens  = []string{"gpu", "adreno", "mali", "3d"}
	looseTokens = []string{"gpuss", "gpu-", "kgsl"}
)

type Options struct {
	ExtraFreqPaths    []string
	ExtraBusyPaths    []string
	ExtraThermalNames []string
}

type Collector struct {
	exec shell.Executor
	log  logger.Logger

	freqPaths []string
	busyPaths []string

	freqPath probe.Path
	busyPath probe.Path
	temp     *thermal.Resolver

	idMu     sync.Mutex
	identity *identity
}

type identity struct {
	vendor   string
	renderer string
}
