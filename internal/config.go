package internal

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rm-hull/face-blur-scale/internal/session"
)

type Config struct {
	Display        session.Display
	MaxUploadBytes int64
	AnimationDelay float64
	MaxDimension   int
}

type environment struct {
	DisplayWidth   int     `env:"FACEBLUR_DISPLAY_WIDTH" envDefault:"400"`
	DisplayHeight  int     `env:"FACEBLUR_DISPLAY_HEIGHT" envDefault:"400"`
	FaceWidth      int     `env:"FACEBLUR_FACE_WIDTH" envDefault:"400"`
	FaceHeight     int     `env:"FACEBLUR_FACE_HEIGHT" envDefault:"400"`
	MaxUploadBytes int64   `env:"FACEBLUR_MAX_UPLOAD_BYTES" envDefault:"20971520"`
	AnimationDelay float64 `env:"FACEBLUR_ANIMATION_DELAY" envDefault:"1.0"`
	MaxDimension   int     `env:"FACEBLUR_MAX_DIMENSION" envDefault:"4096"`
}

// LoadConfig reads the FACEBLUR_* environment variables, falling back to the
// defaults for anything unset.
func LoadConfig() (*Config, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	positive := []struct {
		key   string
		value int64
	}{
		{"FACEBLUR_DISPLAY_WIDTH", int64(e.DisplayWidth)},
		{"FACEBLUR_DISPLAY_HEIGHT", int64(e.DisplayHeight)},
		{"FACEBLUR_FACE_WIDTH", int64(e.FaceWidth)},
		{"FACEBLUR_FACE_HEIGHT", int64(e.FaceHeight)},
		{"FACEBLUR_MAX_UPLOAD_BYTES", e.MaxUploadBytes},
		{"FACEBLUR_MAX_DIMENSION", int64(e.MaxDimension)},
	}
	for _, v := range positive {
		if v.value <= 0 {
			return nil, fmt.Errorf("environment variable %s must be positive, got %d", v.key, v.value)
		}
	}
	if e.AnimationDelay <= 0 || e.AnimationDelay > 60 {
		return nil, fmt.Errorf("environment variable FACEBLUR_ANIMATION_DELAY must be in (0, 60], got %v", e.AnimationDelay)
	}

	cfg := &Config{
		Display: session.Display{
			Main: session.TargetSize{Width: e.DisplayWidth, Height: e.DisplayHeight},
			Face: session.TargetSize{Width: e.FaceWidth, Height: e.FaceHeight},
		},
		MaxUploadBytes: e.MaxUploadBytes,
		AnimationDelay: e.AnimationDelay,
		MaxDimension:   e.MaxDimension,
	}
	if err := cfg.checkDisplay(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) checkDisplay() error {
	for _, size := range []session.TargetSize{cfg.Display.Main, cfg.Display.Face} {
		if size.Width > cfg.MaxDimension || size.Height > cfg.MaxDimension {
			return fmt.Errorf("display size %dx%d exceeds FACEBLUR_MAX_DIMENSION=%d", size.Width, size.Height, cfg.MaxDimension)
		}
	}
	return nil
}
