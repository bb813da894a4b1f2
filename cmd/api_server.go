package cmd

import (
	"fmt"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/face-blur-scale/internal"
	"github.com/rm-hull/face-blur-scale/internal/handlers"
	"github.com/sirupsen/logrus"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

// NewRouter builds the gin engine with the ambient middleware and every image
// route registered.
func NewRouter(cfg *internal.Config, logger *logrus.Logger, debug bool) (*gin.Engine, error) {
	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(logger.Writer(), "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		logger.Warn("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	if err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{}); err != nil {
		return nil, fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	handlers.New(cfg, logger).Register(r)
	return r, nil
}

func ApiServer(port int, debug bool) error {
	logger := internal.InitLogger(debug)
	internal.ShowVersion(logger)
	internal.UserInfo(logger)
	internal.EnvironmentVars(logger)

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"display":        fmt.Sprintf("%dx%d", cfg.Display.Main.Width, cfg.Display.Main.Height),
		"face":           fmt.Sprintf("%dx%d", cfg.Display.Face.Width, cfg.Display.Face.Height),
		"maxUploadBytes": cfg.MaxUploadBytes,
		"maxDimension":   cfg.MaxDimension,
	}).Info("Configuration loaded")

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := NewRouter(cfg, logger, debug)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", port)
	logger.Infof("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %w", port, err)
	}
	return nil
}
