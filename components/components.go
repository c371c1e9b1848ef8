// Package components defines ECS components for the simulation.
package components

// Vitals holds per-life state that resets every generation.
type Vitals struct {
	Alive bool
	Age   int     // Steps lived this generation
	Dose  float64 // Accumulated radiation dose
	Phase float64 // Oscillator phase (radians)
}

// Kill marks the agent dead. Grid bookkeeping is the caller's concern.
func (v *Vitals) Kill() {
	v.Alive = false
}
