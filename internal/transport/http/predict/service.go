package predict

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"culturescan-server-go/internal/domain/contamination"
	domainimage "culturescan-server-go/internal/domain/image"
	"culturescan-server-go/internal/platform/config"
	"culturescan-server-go/internal/platform/errors"
	"culturescan-server-go/internal/platform/logging"
	httptransport "culturescan-server-go/internal/transport/http"
)

const (
	serviceName    = "Microbiology Contamination Detection API"
	serviceVersion = "1.0.0"

	// rawResponseLimit bounds the upstream excerpt echoed back on extraction
	// failures.
	rawResponseLimit = 500
)

// Analyzer is the upstream vision model the prediction pipeline calls.
// *gemini.Client satisfies it; tests substitute stubs.
type Analyzer interface {
	Analyze(ctx context.Context, base64Image string) (*contamination.Envelope, error)
}

// Service is the HTTP transport for contamination prediction.
type Service struct {
	logger   *logging.Logger
	config   *config.Config
	analyzer Analyzer
}

// NewService creates the prediction service.
func NewService(cfg *config.Config, logger *logging.Logger, analyzer Analyzer) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "predict.new", "config is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "predict.new", "logger is required")
	}
	if analyzer == nil {
		return nil, errors.New(errors.KindConfig, "predict.new", "analyzer is required")
	}

	return &Service{
		logger:   logger,
		config:   cfg,
		analyzer: analyzer,
	}, nil
}

// Register wires the prediction and liveness routes.
func (s *Service) Register(ctx context.Context, engine *gin.Engine) error {
	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.POST("/predict", s.handlePredict)

	s.logger.InfoTag("HTTP", "predict routes registered")
	return nil
}

func (s *Service) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePredict runs the four-stage pipeline: normalize the image payload,
// call the upstream vision model, extract a validated result, respond. Each
// stage is a terminal exit point with its own status mapping.
func (s *Service) handlePredict(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondDetail(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	base64Image := domainimage.NormalizeBase64(req.Image)
	if base64Image == "" {
		httptransport.RespondDetail(c, http.StatusBadRequest, "Empty image data provided")
		return
	}

	// the upstream call runs on its own timeout; a caller disconnect does not
	// cancel it
	envelope, err := s.analyzer.Analyze(context.Background(), base64Image)
	if err != nil {
		s.logger.WarnTag("Predict", "upstream call failed: %v", err)
		httptransport.RespondDetail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to call Gemini API: %s", errors.Detail(err)))
		return
	}

	result, err := contamination.Extract(envelope)
	if err != nil {
		s.logger.WarnTag("Predict", "extraction failed: %v", err)
		httptransport.RespondDetail(c, http.StatusInternalServerError, ExtractionFailureDetail{
			Error:       "Failed to parse JSON from Gemini response",
			Message:     errors.Detail(err),
			RawResponse: truncate(envelope.RawText(), rawResponseLimit),
		})
		return
	}

	s.logger.InfoTag("Predict", "classified image: contaminated=%t confidence=%.2f",
		result.Contaminated, result.Confidence)
	c.JSON(http.StatusOK, result)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
