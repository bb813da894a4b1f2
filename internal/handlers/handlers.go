package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/face-blur-scale/internal"
	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/photo/stage"
	"github.com/rm-hull/face-blur-scale/internal/raster"
	"github.com/rm-hull/face-blur-scale/internal/session"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	cfg    *internal.Config
	logger logrus.FieldLogger
}

func New(cfg *internal.Config, logger logrus.FieldLogger) *Handlers {
	return &Handlers{cfg: cfg, logger: logger}
}

func (h *Handlers) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.GET("/stages", h.Stages)
	v1.POST("/blur", h.Blur)
	v1.POST("/blur/animate", h.Animate)
	v1.POST("/resize", h.Resize)
	v1.POST("/fit", h.Fit)
	v1.POST("/faces/crop", h.CropFace)
	v1.POST("/render", h.Render)
}

type stageInfo struct {
	session.BlurStage
	Description string `json:"description"`
}

// Stages lists the canonical blur stages.
func (h *Handlers) Stages(c *gin.Context) {
	stages := session.Stages()
	out := make([]stageInfo, len(stages))
	for i, s := range stages {
		out[i] = stageInfo{BlurStage: s, Description: session.Describe(s)}
	}
	c.JSON(http.StatusOK, out)
}

// Blur applies a Gaussian blur to the uploaded image.
func (h *Handlers) Blur(c *gin.Context) {
	defer observe("blur", time.Now())

	s, err := h.blurStage(c)
	if err != nil {
		h.fail(c, "blur", err)
		return
	}
	h.logger.WithFields(logrus.Fields{
		"kernel": s.KernelSize,
		"sigma":  s.Sigma,
	}).Infof("Applying %s", s.Name)

	h.process(c, "blur", &stage.GaussianBlurStage{KernelSize: s.KernelSize, Sigma: s.Sigma})
}

// Resize stretches the uploaded image to exactly width x height.
func (h *Handlers) Resize(c *gin.Context) {
	defer observe("resize", time.Now())

	size, err := h.querySize(c, h.cfg.Display.Face)
	if err != nil {
		h.fail(c, "resize", err)
		return
	}
	h.process(c, "resize", &stage.ResizeStage{Width: size.Width, Height: size.Height})
}

// Fit letterboxes the uploaded image into width x height.
func (h *Handlers) Fit(c *gin.Context) {
	defer observe("fit", time.Now())

	size, err := h.querySize(c, h.cfg.Display.Main)
	if err != nil {
		h.fail(c, "fit", err)
		return
	}
	h.process(c, "fit", &stage.LetterboxStage{Width: size.Width, Height: size.Height})
}

// CropFace cuts a padded face box out of the uploaded image and resizes it to
// the face display size.
func (h *Handlers) CropFace(c *gin.Context) {
	defer observe("crop", time.Now())

	var q cropQuery
	if err := bindQuery(c, &q); err != nil {
		h.fail(c, "crop", err)
		return
	}
	box, err := parseBox(q.Box)
	if err != nil {
		h.fail(c, "crop", err)
		return
	}
	size, err := h.querySize(c, h.cfg.Display.Face)
	if err != nil {
		h.fail(c, "crop", err)
		return
	}
	h.process(c, "crop",
		&stage.CropStage{Box: box, Padding: raster.FacePadding},
		&stage.ResizeStage{Width: size.Width, Height: size.Height},
	)
}

func (h *Handlers) process(c *gin.Context, operation string, stages ...photo.PipelineStage) {
	p, err := h.readPhoto(c)
	if err != nil {
		h.fail(c, operation, err)
		return
	}
	if err := p.Pipeline(stages...); err != nil {
		h.fail(c, operation, err)
		return
	}
	h.writePNG(c, operation, p)
}

func (h *Handlers) writePNG(c *gin.Context, operation string, p *photo.Photo) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		h.fail(c, operation, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Animate renders the letterboxed image once per blur stage, lightest first,
// as an animated PNG.
func (h *Handlers) Animate(c *gin.Context) {
	defer observe("animate", time.Now())

	size, err := h.querySize(c, h.cfg.Display.Main)
	if err != nil {
		h.fail(c, "animate", err)
		return
	}
	p, err := h.readPhoto(c)
	if err != nil {
		h.fail(c, "animate", err)
		return
	}

	stages := session.Stages()
	frames := make([]*raster.Raster, 0, len(stages))
	for _, s := range stages {
		h.logger.WithFields(logrus.Fields{
			"kernel": s.KernelSize,
			"sigma":  s.Sigma,
		}).Infof("Applying %s", s.Name)

		frame := &photo.Photo{Raster: p.Raster}
		err := frame.Pipeline(
			&stage.GaussianBlurStage{KernelSize: s.KernelSize, Sigma: s.Sigma},
			&stage.LetterboxStage{Width: size.Width, Height: size.Height},
		)
		if err != nil {
			h.fail(c, "animate", err)
			return
		}
		frames = append(frames, frame.Raster)
	}

	data, err := photo.Animate(frames, h.cfg.AnimationDelay)
	if err != nil {
		h.fail(c, "animate", err)
		return
	}
	c.Data(http.StatusOK, "image/apng", data)
}

// Render produces one pane of the face blur view: the letterboxed original,
// the letterboxed blur for the slider position, or the selected face. Only the
// requested pane is computed.
func (h *Handlers) Render(c *gin.Context) {
	defer observe("render", time.Now())

	var q renderQuery
	if err := bindQuery(c, &q); err != nil {
		h.fail(c, "render", err)
		return
	}
	detections, err := parseDetections(q.Boxes)
	if err != nil {
		h.fail(c, "render", err)
		return
	}
	pane := session.Pane(q.Frame)
	if pane == session.PaneFace && len(detections) == 0 {
		h.fail(c, "render", badRequest("frame %q needs at least one box", pane))
		return
	}

	// one crop per box, so the face index can be checked before decoding
	state := session.DefaultState(len(detections))
	if q.Slider != nil {
		state, _ = state.WithSlider(*q.Slider)
	}
	state.FaceIndex = q.Face
	if len(detections) > 0 && (q.Face < 0 || q.Face >= len(detections)) {
		h.fail(c, "render", fmt.Errorf("%w: face index %d out of range [0, %d)", raster.ErrPrecondition, q.Face, len(detections)))
		return
	}

	p, err := h.readPhoto(c)
	if err != nil {
		h.fail(c, "render", err)
		return
	}
	faces, err := session.ExtractFaces(p.Raster, detections)
	if err != nil {
		h.fail(c, "render", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"faces": len(faces),
		"face":  q.Face,
		"frame": pane,
	}).Info(session.Describe(state.Stage()))

	out, err := session.RenderPane(state, p.Raster, faces, h.cfg.Display, pane)
	if err != nil {
		h.fail(c, "render", err)
		return
	}
	h.writePNG(c, "render", &photo.Photo{Raster: out})
}
