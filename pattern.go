package main

// EmitterClass identifies a bullet emitter archetype
type EmitterClass int

const (
	EmitterStraight EmitterClass = 0 // single fast shot
	EmitterFan      EmitterClass = 1 // 5-way spread
	EmitterTwin     EmitterClass = 2 // two parallel rapid shots
	EmitterRing     EmitterClass = 3 // slow radial burst (turrets)
)

// EmitterDef holds the firing stats for an emitter archetype
type EmitterDef struct {
	Count    int     // bullets per volley
	Radial   bool    // distribute the volley over the full circle
	Spread   float64 // total spread angle in radians (fan)
	Parallel float64 // lateral offset between shots (twin)
	Speed    float64 // bullet speed, units/s
	Cooldown float64 // seconds between volleys
	Life     float64 // bullet lifetime, seconds
	HalfW    float64 // bullet half extents; must stay well below
	HalfH    float64 // GridCellSize for the broad phase to be sound
}

var EmitterDefs = [4]EmitterDef{
	// Straight: balanced single shot
	{
		Count: 1, Speed: 700, Cooldown: 0.12,
		Life: 2.5, HalfW: 5, HalfH: 5,
	},
	// Fan: wide but slow to cycle
	{
		Count: 5, Spread: 0.5, Speed: 550, Cooldown: 0.35,
		Life: 2.0, HalfW: 6, HalfH: 6,
	},
	// Twin: two tight streams
	{
		Count: 2, Parallel: 14, Speed: 750, Cooldown: 0.1,
		Life: 2.2, HalfW: 4, HalfH: 4,
	},
	// Ring: full-circle burst, used by turrets
	{
		Count: 12, Radial: true, Speed: 260, Cooldown: 2.5,
		Life: 5.0, HalfW: 8, HalfH: 8,
	},
}

// GetEmitterDef returns the definition for an emitter class
func GetEmitterDef(class EmitterClass) EmitterDef {
	if class < 0 || int(class) >= len(EmitterDefs) {
		return EmitterDefs[EmitterStraight]
	}
	return EmitterDefs[class]
}

// VolleyCount returns the bullets per volley at the given power level.
// Power from pickups widens the volley, capped at +3.
func (d EmitterDef) VolleyCount(power int) int {
	if power > maxPowerLevel {
		power = maxPowerLevel
	}
	if power < 0 {
		power = 0
	}
	return d.Count + power
}
