package energy

import (
	"math"
	"math/rand"

	"energy_dashboard/internal/model"
)

// powerProfile returns a device's draw in kW for a fractional hour of day.
type powerProfile func(hour float64, rng *rand.Rand) float64

// profileTable maps device categories to their time-of-day draw. Unknown
// categories fall back to applianceProfile.
var profileTable = map[model.DeviceCategory]powerProfile{
	model.CategoryHVAC:        hvacProfile,
	model.CategoryWaterHeater: waterHeaterProfile,
	model.CategoryEVCharger:   evChargerProfile,
	model.CategoryLighting:    lightingProfile,
	model.CategoryPoolPump:    poolPumpProfile,
	model.CategoryAppliance:   applianceProfile,
}

func isDaylight(hour float64) bool {
	return hour >= 6 && hour <= 18
}

func isNight(hour float64) bool {
	return hour < 6 || hour >= 22
}

// hvacProfile: base 2.5-4.5 kW, reduced 30% at night.
func hvacProfile(hour float64, rng *rand.Rand) float64 {
	p := 2.5 + rng.Float64()*2.0
	if isNight(hour) {
		p *= 0.7
	}
	return p
}

// waterHeaterProfile: elevated during morning and evening peak windows,
// 0.5 kW standing loss otherwise.
func waterHeaterProfile(hour float64, rng *rand.Rand) float64 {
	morning := hour >= 6 && hour < 9
	evening := hour >= 18 && hour < 21
	if morning || evening {
		return 2.0 + rng.Float64()*1.5
	}
	return 0.5
}

// evChargerProfile: charges overnight only.
func evChargerProfile(hour float64, rng *rand.Rand) float64 {
	if isNight(hour) {
		return 6.5 + rng.Float64()*0.8
	}
	return 0
}

// lightingProfile: elevated outside daylight hours.
func lightingProfile(hour float64, rng *rand.Rand) float64 {
	if !isDaylight(hour) {
		return 0.8 + rng.Float64()*0.7
	}
	return 0.1 + rng.Float64()*0.1
}

// poolPumpProfile: runs mid-day only.
func poolPumpProfile(hour float64, rng *rand.Rand) float64 {
	if hour >= 10 && hour < 16 {
		return 1.1 + rng.Float64()*0.5
	}
	return 0
}

func applianceProfile(hour float64, rng *rand.Rand) float64 {
	return 0.5 + rng.Float64()
}

// autoProfile governs devices in "auto" status regardless of category:
// a daylight-following rule, drawing more when it is dark.
func autoProfile(hour float64, rng *rand.Rand) float64 {
	if !isDaylight(hour) {
		return 0.6 + rng.Float64()*0.6
	}
	return 0.1 + rng.Float64()*0.2
}

// devicePower computes one device's draw for this snapshot.
func devicePower(d model.Device, hour float64, rng *rand.Rand) float64 {
	switch d.Status {
	case model.StatusOff:
		return 0
	case model.StatusAuto:
		return round2(autoProfile(hour, rng))
	}
	profile, ok := profileTable[d.Category]
	if !ok {
		profile = applianceProfile
	}
	return round2(profile(hour, rng))
}

// solarPower models a bell-shaped daylight curve peaking near noon with
// bounded noise. Zero outside [6,18].
func solarPower(hour float64, rng *rand.Rand) float64 {
	if hour < 6 || hour > 18 {
		return 0
	}
	return math.Sin((hour-6)/12*math.Pi) * (8 + rng.Float64()*4)
}

// windPower is time-independent, always in [3,9).
func windPower(rng *rand.Rand) float64 {
	return 3 + rng.Float64()*6
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
