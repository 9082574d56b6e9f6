package estimate

// psychro.go derives the grains-per-pound humidity ratio CDMv23 monitoring
// works in. GPP is reported alongside each room's environment readings;
// it never feeds a cost figure.

import "math"

const (
	// seaLevelHPa is standard atmospheric pressure in hectopascals.
	seaLevelHPa = 1013.25

	// grainsPerPoundOfWater converts a mass humidity ratio to grains of
	// moisture per pound of dry air (7000 grains to the pound).
	grainsPerPoundOfWater = 7000.0

	// vaporMassRatio is the molecular-weight ratio of water vapor to dry
	// air used in the humidity-ratio formula.
	vaporMassRatio = 0.622
)

// grainsPerPound computes the humidity ratio from dry-bulb temperature and
// relative humidity using the Magnus saturation-pressure approximation at
// sea-level pressure. At 75 F and 50% RH it reads around 65 GPP.
func grainsPerPound(tempF, relHumidityPct float64) float64 {
	tempC := (tempF - 32.0) * 5.0 / 9.0

	// Magnus formula, saturation vapor pressure in hPa.
	saturationHPa := 6.112 * math.Exp(17.62*tempC/(243.12+tempC))
	vaporHPa := saturationHPa * relHumidityPct / 100.0

	ratio := vaporMassRatio * vaporHPa / (seaLevelHPa - vaporHPa)
	return ratio * grainsPerPoundOfWater
}
