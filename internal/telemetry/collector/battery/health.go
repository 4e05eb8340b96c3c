package battery

const (
	designCycles              = 800.0
	degradationAtDesignCycles = 20.0
	maxCyclePenalty           = 35.0

	capacityWeight = 0.7
	cycleWeight    = 0.3
)

// HealthPercent blends measured capacity loss with wear expected from the
// cycle count. It is 0 when the design capacity is unknown, which callers
// cannot tell apart from a dead battery.
func HealthPercent(currentMAh, designMAh, cycles int) float64 {
	if designMAh <= 0 {
		return 0
	}

	return capacityWeight*capacityHealth(currentMAh, designMAh) + cycleWeight*cycleHealth(cycles)
}

func capacityHealth(currentMAh, designMAh int) float64 {
	if currentMAh <= 0 {
		return optimisticCapacityHealth()
	}
	return clamp(float64(currentMAh)/float64(designMAh)*100, 0, 100)
}

// optimisticCapacityHealth assumes no capacity loss when the gauge does not
// report charge_full.
func optimisticCapacityHealth() float64 {
	return 100
}

func cycleHealth(cycles int) float64 {
	if cycles < 0 {
		cycles = 0
	}

	penalty := min(float64(cycles)/designCycles*degradationAtDesignCycles, maxCyclePenalty)
	return clamp(100-penalty, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
