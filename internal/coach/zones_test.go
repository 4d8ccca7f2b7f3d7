package coach

import (
	"errors"
	"testing"
)

// TestCalculateZonesShape verifies that every valid age yields exactly five
// contiguous, strictly increasing zones covering 50-100% of estimated max HR.
func TestCalculateZonesShape(t *testing.T) {
	cfg := DefaultConfig()
	for age := cfg.MinAge; age <= cfg.MaxAge; age++ {
		zs, err := CalculateZones(cfg, age, 0)
		if err != nil {
			t.Fatalf("CalculateZones(%d) error: %v", age, err)
		}
		if zs.MaxHR != 220-age {
			t.Errorf("age %d: MaxHR = %d, want %d", age, zs.MaxHR, 220-age)
		}
		if zs.Zones[0].LowerPct != 50 || zs.Zones[4].UpperPct != 100 {
			t.Errorf("age %d: percentage coverage = [%d,%d], want [50,100]",
				age, zs.Zones[0].LowerPct, zs.Zones[4].UpperPct)
		}
		for i, z := range zs.Zones {
			if z.Number != i+1 {
				t.Errorf("age %d: zone %d numbered %d", age, i+1, z.Number)
			}
			if z.MinBPM >= z.MaxBPM {
				t.Errorf("age %d zone %d: empty band [%d,%d)", age, z.Number, z.MinBPM, z.MaxBPM)
			}
			if i > 0 && zs.Zones[i-1].MaxBPM != z.MinBPM {
				t.Errorf("age %d: gap between zone %d and %d", age, i, i+1)
			}
		}
		if zs.Zones[4].MaxBPM != zs.MaxHR {
			t.Errorf("age %d: zone 5 ceiling = %d, want max HR %d", age, zs.Zones[4].MaxBPM, zs.MaxHR)
		}
	}
}

// TestCalculateZonesAge28 checks exact band edges for age 28 with no
// resting HR.
func TestCalculateZonesAge28(t *testing.T) {
	zs, err := CalculateZones(DefaultConfig(), 28, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zs.MaxHR != 192 {
		t.Fatalf("MaxHR = %d, want 192", zs.MaxHR)
	}
	if zs.Method != ZoneMethodMaxPct {
		t.Errorf("Method = %q, want %q", zs.Method, ZoneMethodMaxPct)
	}
	if zs.Zones[0].MinBPM != 96 {
		t.Errorf("zone 1 lower = %d, want 96", zs.Zones[0].MinBPM)
	}
	zone, above := zs.CurrentZone(140)
	if zone.Number != 3 || above {
		t.Errorf("CurrentZone(140) = zone %d (above=%v), want zone 3", zone.Number, above)
	}
}

// TestCalculateZonesKarvonen verifies the reserve method when a resting HR is
// supplied: band bounds are resting + reserve percentage.
func TestCalculateZonesKarvonen(t *testing.T) {
	zs, err := CalculateZones(DefaultConfig(), 28, 65)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zs.Method != ZoneMethodKarvonen {
		t.Fatalf("Method = %q, want %q", zs.Method, ZoneMethodKarvonen)
	}
	// reserve = 192 - 65 = 127; zone 1 = 65 + [50%, 60%) of reserve
	if zs.Zones[0].MinBPM != 129 || zs.Zones[0].MaxBPM != 141 {
		t.Errorf("zone 1 = [%d,%d), want [129,141)", zs.Zones[0].MinBPM, zs.Zones[0].MaxBPM)
	}
	if zs.Zones[4].MaxBPM != 192 {
		t.Errorf("zone 5 ceiling = %d, want 192", zs.Zones[4].MaxBPM)
	}
}

// TestCalculateZonesInvalidInput verifies age and resting HR bounds checks.
func TestCalculateZonesInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		restingHR int
	}{
		{"too young", 12, 0},
		{"too old", 121, 0},
		{"resting HR too low", 30, 20},
		{"resting HR too high", 30, 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateZones(DefaultConfig(), tt.age, tt.restingHR)
			var inputErr *InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Errorf("CalculateZones(%d, %d) error = %v, want InvalidInputError", tt.age, tt.restingHR, err)
			}
		})
	}
}

// TestCurrentZoneTotal verifies that every non-negative heart rate maps to
// exactly one zone, with the over-max flag only past zone 5's ceiling.
func TestCurrentZoneTotal(t *testing.T) {
	zs, err := CalculateZones(DefaultConfig(), 28, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		hr        int
		wantZone  int
		wantAbove bool
	}{
		{0, 1, false},
		{60, 1, false}, // below zone 1 still classifies as zone 1
		{100, 1, false},
		{120, 2, false},
		{140, 3, false},
		{160, 4, false},
		{180, 5, false},
		{192, 5, false},
		{205, 5, true},
	}
	for _, tt := range tests {
		zone, above := zs.CurrentZone(tt.hr)
		if zone.Number != tt.wantZone || above != tt.wantAbove {
			t.Errorf("CurrentZone(%d) = zone %d (above=%v), want zone %d (above=%v)",
				tt.hr, zone.Number, above, tt.wantZone, tt.wantAbove)
		}
	}
}
