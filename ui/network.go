package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/genome"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/neural"
)

// NetworkColors for weight visualization.
var (
	ColorNodeInactive = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// DrawNetworkDiagram renders the pruned wiring of a brain in three columns:
// sensors, internal neurons, actions. Node color is the tanh of the summed
// weight of its incident connections, gray when unconnected.
func DrawNetworkDiagram(x, y, width, height int32, brain *neural.Brain) {
	if brain == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	pools := brain.Pools()
	colWidth := width / 3
	nodeRadius := float32(5)

	sensorNodes := columnLayout(pools.Sensors, float32(x)+float32(colWidth)/2, float32(y), float32(height))
	internalNodes := columnLayout(max(1, pools.Internal), float32(x)+float32(colWidth)*1.5, float32(y), float32(height))
	actionNodes := columnLayout(pools.Actions, float32(x)+float32(colWidth)*2.5, float32(y), float32(height))

	sensorLoad := make([]float32, len(sensorNodes))
	internalLoad := make([]float32, len(internalNodes))
	actionLoad := make([]float32, len(actionNodes))
	sensorUsed := make([]bool, len(sensorNodes))
	internalUsed := make([]bool, len(internalNodes))
	actionUsed := make([]bool, len(actionNodes))

	for _, c := range brain.Connections() {
		w := float32(c.Weight)

		var from rl.Vector2
		if c.SourceKind == genome.SourceSensor {
			from = sensorNodes[c.SourceID]
			sensorLoad[c.SourceID] += w
			sensorUsed[c.SourceID] = true
		} else {
			from = internalNodes[c.SourceID]
			internalLoad[c.SourceID] += w
			internalUsed[c.SourceID] = true
		}

		var to rl.Vector2
		if c.SinkKind == genome.SinkAction {
			to = actionNodes[c.SinkID]
			actionLoad[c.SinkID] += w
			actionUsed[c.SinkID] = true
		} else {
			to = internalNodes[c.SinkID]
			internalLoad[c.SinkID] += w
			internalUsed[c.SinkID] = true
		}

		if from == to {
			rl.DrawCircleLinesV(rl.Vector2{X: from.X, Y: from.Y - nodeRadius - 3}, 4, edgeColor(w))
			continue
		}
		drawEdge(from, to, w)
	}

	sensors := neural.SensorDescriptors()
	for i, pos := range sensorNodes {
		drawNode(pos, nodeRadius, sensorLoad[i], sensorUsed[i])
		if i < len(sensors) {
			label := sensors[i].Label
			labelWidth := rl.MeasureText(label, 10)
			rl.DrawText(label, int32(pos.X-nodeRadius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
		}
	}

	for i, pos := range internalNodes {
		drawNode(pos, nodeRadius, internalLoad[i], internalUsed[i])
	}

	actions := neural.ActionDescriptors()
	for i, pos := range actionNodes {
		drawNode(pos, nodeRadius+2, actionLoad[i], actionUsed[i])
		if i < len(actions) {
			rl.DrawText(actions[i].Label, int32(pos.X+nodeRadius+6), int32(pos.Y)-5, 10, ColorLabelDim)
		}
	}
}

// columnLayout spaces n nodes evenly down a column, centered vertically.
func columnLayout(n int, colX, top, height float32) []rl.Vector2 {
	nodes := make([]rl.Vector2, n)
	if n == 0 {
		return nodes
	}
	spacing := (height - 20) / float32(n)
	for i := range nodes {
		nodes[i] = rl.Vector2{
			X: colX,
			Y: top + 10 + spacing*(float32(i)+0.5),
		}
	}
	return nodes
}

func drawNode(pos rl.Vector2, radius, load float32, used bool) {
	color := ColorNodeInactive
	if used {
		color = activationColor(float32(math.Tanh(float64(load))))
	}
	rl.DrawCircleV(pos, radius, color)
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

func drawEdge(from, to rl.Vector2, weight float32) {
	thickness := abs32(weight) * 0.75
	if thickness > 3 {
		thickness = 3
	}
	if thickness < 0.5 {
		thickness = 0.5
	}
	rl.DrawLineEx(from, to, thickness, edgeColor(weight))
}

// edgeColor is red for excitatory and blue for inhibitory weights, with alpha
// scaled by magnitude.
func edgeColor(weight float32) rl.Color {
	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	alpha := 40 + int(abs32(weight)*25)
	if alpha > 200 {
		alpha = 200
	}
	color.A = uint8(alpha)
	return color
}

// activationColor returns a color based on activation value.
// Negative = blue, Zero = gray, Positive = red.
func activationColor(activation float32) rl.Color {
	t := abs32(activation)
	if t > 1 {
		t = 1
	}
	if activation > 0 {
		return rl.Color{R: uint8(60 + t*195), G: uint8(60 - t*30), B: uint8(60 - t*30), A: 255}
	}
	return rl.Color{R: uint8(60 - t*30), G: uint8(60 - t*30), B: uint8(60 + t*195), A: 255}
}
