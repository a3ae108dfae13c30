package main

const (
	PickupHalf     = 12.0
	PickupTimeout  = 25.0
	PickupInterval = 10.0 // seconds between spawns
	maxPickups     = 6
)

// Pickup is a power orb: collecting it raises the player's power
// level, which widens their volleys.
type Pickup struct {
	ID    string
	X, Y  float64
	Life  float64
	Alive bool
}

// NewPickup spawns a pickup in the contested middle of the arena
func NewPickup() *Pickup {
	return &Pickup{
		ID:    GenerateID(4),
		X:     WorldWidth*0.35 + randFloat()*WorldWidth*0.3,
		Y:     WorldHeight*0.15 + randFloat()*WorldHeight*0.7,
		Life:  PickupTimeout,
		Alive: true,
	}
}

// Box returns the pickup's collection box
func (pk *Pickup) Box() AABB {
	return AABBAround(pk.X, pk.Y, PickupHalf, PickupHalf)
}

// Update ticks down the pickup lifetime
func (pk *Pickup) Update(dt float64) {
	if !pk.Alive {
		return
	}
	pk.Life -= dt
	if pk.Life <= 0 {
		pk.Alive = false
	}
}

// ToState converts to protocol state
func (pk *Pickup) ToState() PickupState {
	return PickupState{
		ID: pk.ID,
		X:  round1(pk.X),
		Y:  round1(pk.Y),
	}
}
