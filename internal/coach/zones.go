package coach

import (
	"fmt"
	"math"
)

// Zone is one of the five heart-rate intensity bands, expressed both as a
// percentage range and as concrete bpm bounds for a given person.
type Zone struct {
	Number   int    `json:"zone"`
	Name     string `json:"name"`
	LowerPct int    `json:"lower_pct"`
	UpperPct int    `json:"upper_pct"`
	MinBPM   int    `json:"min_bpm"`
	MaxBPM   int    `json:"max_bpm"`
	Benefit  string `json:"benefit"`
}

// ZoneSet is the full set of five ordered zones derived from a profile. It is
// a value object: never persisted, always recomputed from age and resting HR.
type ZoneSet struct {
	MaxHR     int     `json:"max_hr"`
	RestingHR int     `json:"resting_hr,omitempty"`
	Method    string  `json:"method"`
	Zones     [5]Zone `json:"zones"`
}

const (
	// ZoneMethodMaxPct derives bands as percentages of estimated max HR.
	ZoneMethodMaxPct = "max_hr_percentage"
	// ZoneMethodKarvonen derives bands from heart-rate reserve, used when a
	// resting heart rate is known.
	ZoneMethodKarvonen = "karvonen"
)

// Plausibility bounds for a supplied resting heart rate.
const (
	minRestingHR = 30
	maxRestingHR = 120
)

var zoneDefs = [5]struct {
	name     string
	lower    int
	upper    int
	benefit  string
}{
	{"Active Recovery", 50, 60, "recovery and fat burning"},
	{"Aerobic Base", 60, 70, "endurance and cardiac efficiency"},
	{"Aerobic", 70, 80, "VO2 max and lactate clearance"},
	{"Anaerobic Threshold", 80, 90, "lactate tolerance and aerobic power"},
	{"VO2 Max", 90, 100, "maximum power and neuromuscular capacity"},
}

// CalculateZones derives the five training zones from age and an optional
// resting heart rate (0 means unknown). Estimated max HR is 220 − age. With a
// resting HR the Karvonen reserve method is used; otherwise plain percentages
// of max HR. Pure and deterministic.
func CalculateZones(cfg Config, age, restingHR int) (*ZoneSet, error) {
	if age < cfg.MinAge || age > cfg.MaxAge {
		return nil, &InvalidInputError{
			Field:  "age",
			Reason: fmt.Sprintf("must be between %d and %d", cfg.MinAge, cfg.MaxAge),
		}
	}
	if restingHR != 0 && (restingHR < minRestingHR || restingHR > maxRestingHR) {
		return nil, &InvalidInputError{
			Field:  "resting_heart_rate",
			Reason: fmt.Sprintf("must be between %d and %d bpm", minRestingHR, maxRestingHR),
		}
	}

	maxHR := 220 - age

	// One boundary per percentage point keeps adjacent zones contiguous.
	bpmAt := func(pct int) int {
		return int(math.Round(float64(maxHR) * float64(pct) / 100))
	}
	method := ZoneMethodMaxPct
	if restingHR != 0 {
		reserve := maxHR - restingHR
		bpmAt = func(pct int) int {
			return restingHR + int(math.Round(float64(reserve)*float64(pct)/100))
		}
		method = ZoneMethodKarvonen
	}

	zs := &ZoneSet{MaxHR: maxHR, RestingHR: restingHR, Method: method}
	for i, def := range zoneDefs {
		zs.Zones[i] = Zone{
			Number:   i + 1,
			Name:     def.name,
			LowerPct: def.lower,
			UpperPct: def.upper,
			MinBPM:   bpmAt(def.lower),
			MaxBPM:   bpmAt(def.upper),
			Benefit:  def.benefit,
		}
	}
	return zs, nil
}

// CurrentZone maps a heart rate to exactly one zone. Readings below Zone 1
// land in Zone 1; readings above Zone 5's ceiling land in Zone 5 with
// aboveMax set, so the safety and recommendation layers can still advise on
// over-threshold readings instead of failing.
func (zs *ZoneSet) CurrentZone(currentHR int) (Zone, bool) {
	for _, z := range zs.Zones[:4] {
		if currentHR < z.MaxBPM {
			return z, false
		}
	}
	top := zs.Zones[4]
	return top, currentHR > top.MaxBPM
}
