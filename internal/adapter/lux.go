package adapter

// Default lux bounds for the covering light sensor. The device reports
// a coarse level, not lux; these bounds define the mapping range.
const (
	defaultMinLux = 1
	defaultMaxLux = 6001

	// The BLE sensor reports levels 1..10, so 9 spaces between levels.
	spaceBetweenLevels = 9
)

// luxBounds resolves the configured mapping range.
func luxBounds(setMin, setMax float64) (float64, float64) {
	if setMin <= 0 {
		setMin = defaultMinLux
	}
	if setMax <= 0 {
		setMax = defaultMaxLux
	}
	return setMin, setMax
}

// LuxFromLevel maps the BLE coarse light level (1..10) onto the
// configured lux range. Level 1 is the minimum, level 10 the maximum;
// each step between adds one equal share of the range width.
func LuxFromLevel(level int, setMin, setMax float64) float64 {
	minLux, maxLux := luxBounds(setMin, setMax)

	if level <= 1 {
		return minLux
	}
	if level >= 10 {
		return maxLux
	}
	return (maxLux - minLux) / spaceBetweenLevels * float64(level-1)
}

// LuxFromBrightness maps the cloud's two-state brightness report onto
// the configured lux range: "dim" is the minimum, anything else the
// maximum.
func LuxFromBrightness(brightness string, setMin, setMax float64) float64 {
	minLux, maxLux := luxBounds(setMin, setMax)
	if brightness == "dim" {
		return minLux
	}
	return maxLux
}

// lowBatteryThreshold is the battery percentage below which the low
// battery flag is raised.
const lowBatteryThreshold = 10

// LowBattery reports whether a battery level should raise the flag.
func LowBattery(level int) bool {
	return level < lowBatteryThreshold
}
