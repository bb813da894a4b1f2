package session

import (
	"fmt"

	"github.com/rm-hull/face-blur-scale/internal/raster"
)

// TargetSize is a width x height footprint.
type TargetSize struct {
	Width  int
	Height int
}

// Display holds the footprint of the main panes and of the face pane.
type Display struct {
	Main TargetSize
	Face TargetSize
}

// DefaultDisplay is 400x400 for every pane.
var DefaultDisplay = Display{
	Main: TargetSize{Width: 400, Height: 400},
	Face: TargetSize{Width: 400, Height: 400},
}

// Pane names one of the frames a render can produce.
type Pane string

const (
	PaneOriginal Pane = "original"
	PaneBlurred  Pane = "blurred"
	PaneFace     Pane = "face"
)

// Frames are the three panes produced by a render. Face is nil when there are
// no faces.
type Frames struct {
	Original *raster.Raster
	Blurred  *raster.Raster
	Face     *raster.Raster
}

// SelectFace returns the face crop the state points at.
func SelectFace(state State, faces []FaceCrop) (FaceCrop, error) {
	if state.FaceIndex < 0 || state.FaceIndex >= len(faces) {
		return FaceCrop{}, fmt.Errorf("%w: face index %d out of range [0, %d)", raster.ErrPrecondition, state.FaceIndex, len(faces))
	}
	return faces[state.FaceIndex], nil
}

// Render produces the panes for a state. It reads nothing but its arguments,
// so rendering the same state twice yields the same frames.
func Render(state State, src *raster.Raster, faces []FaceCrop, display Display) (Frames, error) {
	var frames Frames
	if len(faces) > 0 {
		if _, err := SelectFace(state, faces); err != nil {
			return frames, err
		}
	}

	var err error
	if frames.Original, err = RenderPane(state, src, faces, display, PaneOriginal); err != nil {
		return frames, err
	}
	if frames.Blurred, err = RenderPane(state, src, faces, display, PaneBlurred); err != nil {
		return frames, err
	}
	if len(faces) == 0 {
		return frames, nil
	}
	if frames.Face, err = RenderPane(state, src, faces, display, PaneFace); err != nil {
		return frames, err
	}
	return frames, nil
}

// RenderPane produces a single pane, doing only the work that pane needs.
func RenderPane(state State, src *raster.Raster, faces []FaceCrop, display Display, pane Pane) (*raster.Raster, error) {
	switch pane {
	case PaneOriginal:
		original, err := raster.Fit(src, display.Main.Width, display.Main.Height)
		if err != nil {
			return nil, fmt.Errorf("failed to fit original: %w", err)
		}
		return original, nil

	case PaneBlurred:
		stage := state.Stage()
		blurred, err := raster.Convolve(src, stage.KernelSize, stage.Sigma)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", stage.Name, err)
		}
		if blurred, err = raster.Fit(blurred, display.Main.Width, display.Main.Height); err != nil {
			return nil, fmt.Errorf("failed to fit blurred: %w", err)
		}
		return blurred, nil

	case PaneFace:
		face, err := SelectFace(state, faces)
		if err != nil {
			return nil, err
		}
		resized, err := raster.Resize(face.Image, display.Face.Width, display.Face.Height)
		if err != nil {
			return nil, fmt.Errorf("failed to resize face %d: %w", face.Index, err)
		}
		return resized, nil
	}
	return nil, fmt.Errorf("%w: unknown pane %q", raster.ErrPrecondition, pane)
}
