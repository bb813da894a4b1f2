package handlers

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/raster"
	"github.com/rm-hull/face-blur-scale/internal/session"
)

// readPhoto decodes the request body, refusing bodies above the configured
// upload limit.
func (h *Handlers) readPhoto(c *gin.Context) (*photo.Photo, error) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, badRequest("request body is empty, expected an image")
	}

	p, format, err := photo.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, badRequest("%v", err)
	}
	h.logger.WithField("format", format).Debugf("Decoded %dx%d image", p.Raster.Width, p.Raster.Height)
	return p, nil
}

type sizeQuery struct {
	Width  *int `form:"width" binding:"omitempty,gt=0"`
	Height *int `form:"height" binding:"omitempty,gt=0"`
}

type blurQuery struct {
	Size   *int     `form:"size" binding:"omitempty,gt=0"`
	Sigma  *float64 `form:"sigma"`
	Slider *float64 `form:"slider"`
	Stage  *string  `form:"stage"`
}

type cropQuery struct {
	Box string `form:"box" binding:"required"`
}

type renderQuery struct {
	Boxes  []string `form:"box"`
	Face   int      `form:"face"`
	Slider *float64 `form:"slider"`
	Frame  string   `form:"frame,default=blurred" binding:"oneof=original blurred face"`
}

func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return badRequest("invalid query: %v", err)
	}
	return nil
}

// querySize reads width and height, defaulting to the given footprint. Sizes
// beyond the configured maximum are refused before any pixel work.
func (h *Handlers) querySize(c *gin.Context, fallback session.TargetSize) (session.TargetSize, error) {
	var q sizeQuery
	if err := bindQuery(c, &q); err != nil {
		return session.TargetSize{}, err
	}
	size := fallback
	if q.Width != nil {
		size.Width = *q.Width
	}
	if q.Height != nil {
		size.Height = *q.Height
	}
	if size.Width > h.cfg.MaxDimension || size.Height > h.cfg.MaxDimension {
		return session.TargetSize{}, fmt.Errorf("%w: %dx%d exceeds the maximum output dimension of %d",
			raster.ErrPrecondition, size.Width, size.Height, h.cfg.MaxDimension)
	}
	return size, nil
}

// parseBox reads an "x,y,w,h" face box.
func parseBox(value string) (image.Rectangle, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, badRequest("box %q must be x,y,w,h", value)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return image.Rectangle{}, badRequest("box %q must be x,y,w,h: %v", value, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, badRequest("box %q must have a positive width and height", value)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func parseDetections(boxes []string) ([]session.Detection, error) {
	detections := make([]session.Detection, 0, len(boxes))
	for _, value := range boxes {
		box, err := parseBox(value)
		if err != nil {
			return nil, err
		}
		detections = append(detections, session.Detection{Box: box, Confidence: 1})
	}
	return detections, nil
}

// blurStage resolves the blur settings of a request. Explicit size and sigma
// win over a slider position, which wins over a named stage; with none of
// them the session default applies.
func (h *Handlers) blurStage(c *gin.Context) (session.BlurStage, error) {
	var q blurQuery
	if err := bindQuery(c, &q); err != nil {
		return session.BlurStage{}, err
	}

	if q.Size != nil || q.Sigma != nil {
		if q.Size == nil || q.Sigma == nil {
			return session.BlurStage{}, badRequest("size and sigma must be given together")
		}
		if *q.Size > h.cfg.MaxDimension {
			return session.BlurStage{}, fmt.Errorf("%w: kernel size %d exceeds the maximum of %d",
				raster.ErrPrecondition, *q.Size, h.cfg.MaxDimension)
		}
		return session.BlurStage{Name: "Custom Blur", KernelSize: *q.Size, Sigma: *q.Sigma}, nil
	}

	if q.Slider != nil {
		return session.Stages()[session.SnapSlider(*q.Slider)], nil
	}

	if q.Stage != nil {
		s, err := session.StageByName(*q.Stage)
		if err != nil {
			return session.BlurStage{}, &requestError{err: err}
		}
		return s, nil
	}
	return session.DefaultStage(), nil
}
