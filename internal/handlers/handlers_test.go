package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/face-blur-scale/internal"
	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/raster"
	"github.com/rm-hull/face-blur-scale/internal/session"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *internal.Config {
	return &internal.Config{
		Display: session.Display{
			Main: session.TargetSize{Width: 40, Height: 40},
			Face: session.TargetSize{Width: 16, Height: 16},
		},
		MaxUploadBytes: 1 << 20,
		AnimationDelay: 0.5,
		MaxDimension:   256,
	}
}

func newRouter(cfg *internal.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	r := gin.New()
	New(cfg, logger).Register(r)
	return r
}

func pngBody(t *testing.T, width, height int, c color.Color) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func do(t *testing.T, r http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeRaster(t *testing.T, w *httptest.ResponseRecorder) *raster.Raster {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p, format, err := photo.Decode(w.Body)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return p.Raster
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

var gray = color.RGBA{128, 128, 128, 255}

func TestStages(t *testing.T) {
	r := newRouter(testConfig())
	w := do(t, r, http.MethodGet, "/v1/stages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stages []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stages))
	require.Len(t, stages, 3)
	assert.Equal(t, "Light Blur", stages[0]["name"])
	assert.Equal(t, float64(101), stages[2]["kernelSize"])
	assert.Equal(t, "Medium Blur | Kernel: 55x55 | Sigma: 25", stages[1]["description"])
}

func TestBlur(t *testing.T) {
	r := newRouter(testConfig())

	t.Run("explicit kernel keeps a flat image flat", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur?size=5&sigma=2", pngBody(t, 12, 8, gray))
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		out := decodeRaster(t, w)
		want, err := raster.Filled(12, 8, 128, 128, 128)
		require.NoError(t, err)
		assert.Equal(t, want.Pix, out.Pix)
	})

	t.Run("named stage", func(t *testing.T) {
		out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/blur?stage=light", pngBody(t, 10, 10, gray)))
		assert.Equal(t, 10, out.Width)
	})

	t.Run("slider position", func(t *testing.T) {
		out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/blur?slider=99", pngBody(t, 6, 6, gray)))
		assert.Equal(t, 6, out.Height)
	})

	t.Run("unknown stage", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur?stage=extreme", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, `unknown blur stage "extreme"`, errorMessage(t, w))
	})

	t.Run("size without sigma", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur?size=5", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "size and sigma must be given together", errorMessage(t, w))
	})

	t.Run("non-numeric sigma", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur?size=5&sigma=lots", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero sigma", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur?size=5&sigma=0", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessage(t, w), "sigma must be positive")
	})

	t.Run("not an image", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur", bytes.NewBufferString("hello"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "failed to decode image")
	})

	t.Run("empty body", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "request body is empty, expected an image", errorMessage(t, w))
	})
}

func TestUploadLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 16
	r := newRouter(cfg)

	w := do(t, r, http.MethodPost, "/v1/fit", pngBody(t, 20, 20, gray))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestResize(t *testing.T) {
	r := newRouter(testConfig())

	out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/resize?width=7&height=5", pngBody(t, 20, 10, gray)))
	assert.Equal(t, 7, out.Width)
	assert.Equal(t, 5, out.Height)

	out = decodeRaster(t, do(t, r, http.MethodPost, "/v1/resize", pngBody(t, 20, 10, gray)))
	assert.Equal(t, 16, out.Width, "defaults to the face display size")

	w := do(t, r, http.MethodPost, "/v1/resize?width=0&height=5", pngBody(t, 20, 10, gray))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "invalid query")

	w = do(t, r, http.MethodPost, "/v1/resize?width=big", pngBody(t, 20, 10, gray))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaxDimension(t *testing.T) {
	r := newRouter(testConfig())

	t.Run("resize", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/resize?width=50000&height=50000", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessage(t, w), "exceeds the maximum output dimension of 256")
	})

	t.Run("fit", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/fit?height=257", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("crop", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/faces/crop?box=1,1,2,2&width=1000", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("kernel size", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/blur?size=100001&sigma=3", pngBody(t, 4, 4, gray))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessage(t, w), "kernel size 100001 exceeds the maximum of 256")
	})

	t.Run("at the limit", func(t *testing.T) {
		out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/resize?width=256&height=1", pngBody(t, 4, 4, gray)))
		assert.Equal(t, 256, out.Width)
	})
}

func TestFit(t *testing.T) {
	r := newRouter(testConfig())

	out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/fit", pngBody(t, 10, 20, gray)))
	require.Equal(t, 40, out.Width)
	require.Equal(t, 40, out.Height)
	assert.Equal(t, uint8(0), out.At(9, 20, 0))
	assert.Equal(t, uint8(128), out.At(10, 20, 0))
	assert.Equal(t, uint8(128), out.At(29, 20, 0))
	assert.Equal(t, uint8(0), out.At(30, 20, 0))
}

func TestCropFace(t *testing.T) {
	r := newRouter(testConfig())

	out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/faces/crop?box=10,10,20,20&width=24&height=32", pngBody(t, 60, 60, gray)))
	assert.Equal(t, 24, out.Width)
	assert.Equal(t, 32, out.Height)

	w := do(t, r, http.MethodPost, "/v1/faces/crop?box=10,10,20", pngBody(t, 60, 60, gray))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `box "10,10,20" must be x,y,w,h`, errorMessage(t, w))

	w = do(t, r, http.MethodPost, "/v1/faces/crop?box=100,100,5,5", pngBody(t, 60, 60, gray))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRender(t *testing.T) {
	r := newRouter(testConfig())

	t.Run("face pane", func(t *testing.T) {
		out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/render?box=5,5,10,10&box=30,5,10,10&face=1&frame=face", pngBody(t, 50, 30, gray)))
		assert.Equal(t, 16, out.Width)
		assert.Equal(t, 16, out.Height)
	})

	t.Run("original pane", func(t *testing.T) {
		out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/render?frame=original", pngBody(t, 50, 30, gray)))
		assert.Equal(t, 40, out.Width)
		assert.Equal(t, uint8(0), out.At(0, 0, 0))
	})

	t.Run("blurred pane with slider", func(t *testing.T) {
		out := decodeRaster(t, do(t, r, http.MethodPost, "/v1/render?slider=10", pngBody(t, 20, 20, gray)))
		assert.Equal(t, uint8(128), out.At(20, 20, 1))
	})

	t.Run("face pane without boxes", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/render?frame=face", pngBody(t, 20, 20, gray))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown pane", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/render?frame=side", pngBody(t, 20, 20, gray))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "oneof")
	})

	t.Run("face index out of range", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/render?box=5,5,10,10&face=3", pngBody(t, 20, 20, gray))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "precondition violated: face index 3 out of range [0, 1)", errorMessage(t, w))
	})

	t.Run("face index is checked before the body is read", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/v1/render?box=5,5,10,10&face=-1&frame=original", bytes.NewBufferString("not an image"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("original pane ignores the slider", func(t *testing.T) {
		light := decodeRaster(t, do(t, r, http.MethodPost, "/v1/render?frame=original&slider=0", pngBody(t, 20, 20, gray)))
		heavy := decodeRaster(t, do(t, r, http.MethodPost, "/v1/render?frame=original&slider=100", pngBody(t, 20, 20, gray)))
		assert.Equal(t, light.Pix, heavy.Pix)
	})
}

func TestAnimate(t *testing.T) {
	r := newRouter(testConfig())

	w := do(t, r, http.MethodPost, "/v1/blur/animate?width=20&height=20", pngBody(t, 12, 12, gray))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/apng", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("acTL")))
}
