package session

import (
	"fmt"
	"strings"
)

// BlurStage is one notch of the blur slider.
type BlurStage struct {
	Name        string  `json:"name"`
	KernelSize  int     `json:"kernelSize"`
	Sigma       float64 `json:"sigma"`
	SliderValue int     `json:"sliderValue"`
	Color       string  `json:"color"`
}

const defaultStageIndex = 1

var stages = [...]BlurStage{
	{Name: "Light Blur", KernelSize: 25, Sigma: 10, SliderValue: 0, Color: "#4CAF50"},
	{Name: "Medium Blur", KernelSize: 55, Sigma: 25, SliderValue: 50, Color: "#FF9800"},
	{Name: "Heavy Blur", KernelSize: 101, Sigma: 50, SliderValue: 100, Color: "#F44336"},
}

// Stages returns a copy of the canonical stages ordered from lightest to
// heaviest.
func Stages() []BlurStage {
	out := stages
	return out[:]
}

// DefaultStage is the stage a fresh session starts on.
func DefaultStage() BlurStage {
	return stages[defaultStageIndex]
}

// StageByName looks a stage up by its short name ("light", "medium", "heavy")
// or its display name.
func StageByName(name string) (BlurStage, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for _, s := range Stages() {
		if name == strings.ToLower(s.Name) || name == strings.ToLower(strings.TrimSuffix(s.Name, " Blur")) {
			return s, nil
		}
	}
	return BlurStage{}, fmt.Errorf("unknown blur stage %q", name)
}

// SnapSlider maps a raw 0..100 slider position onto a stage index.
func SnapSlider(value float64) int {
	switch {
	case value <= 25:
		return 0
	case value <= 75:
		return 1
	default:
		return 2
	}
}

// Describe renders the one-line summary shown next to the slider.
func Describe(s BlurStage) string {
	return fmt.Sprintf("%s | Kernel: %dx%d | Sigma: %g", s.Name, s.KernelSize, s.KernelSize, s.Sigma)
}
