package resources

const (
	NoiseMakerCharges  = 3
	NoiseMakerCooldown = 15.0
)

// NoiseMaker is the lure device. It has a fixed number of charges per night
// and must recharge between uses.
type NoiseMaker struct {
	charges  int
	cooldown float64
}

// NewNoiseMaker returns a fully charged device.
func NewNoiseMaker() *NoiseMaker {
	return &NoiseMaker{charges: NoiseMakerCharges}
}

// Charges returns the uses left tonight.
func (n *NoiseMaker) Charges() int { return n.charges }

// Cooldown returns the seconds until the device can fire again.
func (n *NoiseMaker) Cooldown() float64 { return n.cooldown }

// Ready reports whether the device can fire now.
func (n *NoiseMaker) Ready() bool {
	return n.charges > 0 && n.cooldown <= 0
}

// Use consumes a charge and starts the cooldown.
func (n *NoiseMaker) Use() bool {
	if !n.Ready() {
		return false
	}
	n.charges--
	n.cooldown = NoiseMakerCooldown
	return true
}

// Update counts the cooldown down.
func (n *NoiseMaker) Update(dt float64) {
	if n.cooldown > 0 {
		n.cooldown = max(0, n.cooldown-dt)
	}
}
