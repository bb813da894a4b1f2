package photo

import (
	"bytes"
	"errors"

	"github.com/kettek/apng"
	"github.com/rm-hull/face-blur-scale/internal/raster"
)

// Animate encodes the frames as a looping APNG, showing each one for
// frameDelay seconds.
func Animate(frames []*raster.Raster, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to animate")
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, frame := range frames {
		a.Frames[i] = apng.Frame{
			Image:            ToImage(frame),
			DelayNumerator:   uint16(frameDelay * 1000),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
