package neural

// IODescriptor describes a brain sensor or action for display.
type IODescriptor struct {
	ID          string  // Unique identifier
	Label       string  // Display name
	Description string  // Tooltip/extended description
	Min         float64 // Minimum value
	Max         float64 // Maximum value
	IsCentered  bool    // True for centered bar display (e.g., -1 to +1)
	Group       string  // Logical grouping
}

// Sensor indices. Order matches the sensor vector built each step.
const (
	SensorLocX = iota
	SensorLocY
	SensorAge
	SensorRandom
	SensorOscillator
	SensorBoundaryDistX
	SensorBoundaryDistY
	SensorDensity
	SensorGradientFwd
	SensorGeneticSimFwd
	SensorLastMoveX
	SensorLastMoveY
	SensorBlockedFwd
	SensorConstant
)

// Action indices. Order matches the action vector returned by Forward.
const (
	ActionMoveX = iota
	ActionMoveY
	ActionMoveRandom
	ActionMoveForward
	ActionTurnLeft
	ActionTurnRight
	ActionReverse
	ActionNoopOrKill
)

var sensorDescriptors = [NumSensors]IODescriptor{
	{ID: "loc_x", Label: "Loc X", Description: "x position (0=west edge, 1=east edge)", Min: 0, Max: 1, Group: "location"},
	{ID: "loc_y", Label: "Loc Y", Description: "y position (0=south edge, 1=north edge)", Min: 0, Max: 1, Group: "location"},
	{ID: "age", Label: "Age", Description: "Fraction of the generation lived", Min: 0, Max: 1, Group: "self"},
	{ID: "random", Label: "Random", Description: "Uniform noise, fresh each step", Min: 0, Max: 1, Group: "self"},
	{ID: "oscillator", Label: "Osc", Description: "Sine oscillator (period ~30 steps)", Min: 0, Max: 1, Group: "self"},
	{ID: "bdist_x", Label: "Wall EW", Description: "Closeness to nearest east/west wall (1=at wall)", Min: 0, Max: 1, Group: "location"},
	{ID: "bdist_y", Label: "Wall NS", Description: "Closeness to nearest north/south wall (1=at wall)", Min: 0, Max: 1, Group: "location"},
	{ID: "pop_density", Label: "Density", Description: "Occupied cells within radius 2, /8 capped at 1", Min: 0, Max: 1, Group: "population"},
	{ID: "pop_grad_fwd", Label: "Grad Fwd", Description: "Occupancy 5 cells ahead minus 5 behind, /5", Min: -1, Max: 1, IsCentered: true, Group: "population"},
	{ID: "genetic_sim_fwd", Label: "Kin Fwd", Description: "Genome similarity to the agent ahead (0 if empty)", Min: 0, Max: 1, Group: "population"},
	{ID: "last_move_x", Label: "Last X", Description: "Heading x component (-1,0,1 -> 0,0.5,1)", Min: 0, Max: 1, Group: "self"},
	{ID: "last_move_y", Label: "Last Y", Description: "Heading y component (-1,0,1 -> 0,0.5,1)", Min: 0, Max: 1, Group: "self"},
	{ID: "fwd_blocked", Label: "Blocked", Description: "1 if the cell ahead is occupied", Min: 0, Max: 1, Group: "population"},
	{ID: "constant", Label: "Bias", Description: "Constant input (always 1.0)", Min: 0, Max: 1, Group: "internal"},
}

var actionDescriptors = [NumActions]IODescriptor{
	{ID: "move_x", Label: "Move X", Description: "Step east (+) or west (-)", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "move_y", Label: "Move Y", Description: "Step north (+) or south (-)", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "move_random", Label: "Random", Description: "Step to a random neighbor", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "move_forward", Label: "Forward", Description: "Continue along the current heading", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "turn_left", Label: "Left", Description: "Rotate heading -45° then step", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "turn_right", Label: "Right", Description: "Rotate heading +45° then step", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "reverse", Label: "Reverse", Description: "Flip heading then step", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	{ID: "noop_kill", Label: "Noop/Kill", Description: "Idle, or kill the agent ahead when kill mode is on", Min: -1, Max: 1, IsCentered: true, Group: "action"},
}

// SensorDescriptors returns metadata for all sensors.
func SensorDescriptors() []IODescriptor {
	return sensorDescriptors[:]
}

// ActionDescriptors returns metadata for all actions.
func ActionDescriptors() []IODescriptor {
	return actionDescriptors[:]
}

// SensorByID returns the descriptor for a specific sensor by ID.
func SensorByID(id string) (IODescriptor, bool) {
	for _, desc := range sensorDescriptors {
		if desc.ID == id {
			return desc, true
		}
	}
	return IODescriptor{}, false
}

// ActionByID returns the descriptor for a specific action by ID.
func ActionByID(id string) (IODescriptor, bool) {
	for _, desc := range actionDescriptors {
		if desc.ID == id {
			return desc, true
		}
	}
	return IODescriptor{}, false
}
