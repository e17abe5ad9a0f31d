package ui

import (
	"fmt"

	"github.com/inkyblackness/imgui-go/v4"
)

var passLabels = [4]string{"Motion Blur", "Color Correction", "Vignette", "Film Grain"}

// Panel lays out the post-processing window. Widgets write straight into
// the controls.
type Panel struct {
	Controls *Controls
	FPS      *FPSCounter
}

// Build emits the panel's widgets for the current imgui frame. It reports
// whether any control changed.
func (p *Panel) Build() bool {
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: 300, Y: 0}, imgui.ConditionFirstUseEver)
	defer imgui.End()
	if !imgui.Begin("Post Processing") {
		return false
	}

	changed := false
	for i, label := range passLabels {
		if imgui.Checkbox(label, &p.Controls.Enabled[i]) {
			changed = true
		}
	}
	imgui.Separator()
	if imgui.SliderFloat3("Color Adjust", &p.Controls.ColorAdjust, ColorAdjustMin, ColorAdjustMax) {
		changed = true
	}
	if imgui.SliderFloat("Grain Amount", &p.Controls.GrainAmount, GrainMin, GrainMax) {
		changed = true
	}
	if changed {
		p.Controls.Clamp()
	}

	if p.FPS != nil {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("FPS: %.1f", p.FPS.FPS()))
	}
	return changed
}
