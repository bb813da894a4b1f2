package session

// Direction moves the face selection.
type Direction int

const (
	Prev Direction = iota - 1
	Stay
	Next
)

// State is everything a render depends on. It is a value: transitions return
// a new State and never modify the receiver.
type State struct {
	StageIndex int
	FaceIndex  int
	FaceCount  int
}

// DefaultState starts on the medium stage with the first face selected.
func DefaultState(faceCount int) State {
	return State{StageIndex: defaultStageIndex, FaceCount: max(faceCount, 0)}
}

// Stage returns the blur stage selected by the state.
func (s State) Stage() BlurStage {
	stages := Stages()
	return stages[min(max(s.StageIndex, 0), len(stages)-1)]
}

// WithSlider applies a slider movement. The second result reports whether the
// stage actually changed, i.e. whether a re-render is needed.
func (s State) WithSlider(value float64) (State, bool) {
	idx := SnapSlider(value)
	if idx == s.StageIndex {
		return s, false
	}
	s.StageIndex = idx
	return s, true
}

// Navigate cycles through the faces, wrapping at both ends. With fewer than
// two faces it is a no-op.
func (s State) Navigate(d Direction) State {
	if s.FaceCount <= 1 {
		return s
	}
	s.FaceIndex = ((s.FaceIndex+int(d))%s.FaceCount + s.FaceCount) % s.FaceCount
	return s
}
