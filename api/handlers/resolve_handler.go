package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/internal/domain"
)

// ResolveHandler handles media resolve requests
type ResolveHandler struct {
	service *app.ResolveService
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(service *app.ResolveService) *ResolveHandler {
	return &ResolveHandler{
		service: service,
	}
}

// Resolve handles GET|POST /api/resolve
func (h *ResolveHandler) Resolve(c *gin.Context) {
	req, err := bindResolveRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.NewSuccessResponse(result))
}

// MethodNotAllowed renders the 405 envelope
func MethodNotAllowed(c *gin.Context) {
	respondError(c, domain.NewResolveError(domain.KindMethodNotAllowed, domain.StageIdle, "", nil))
}

// bindResolveRequest reads url and platform from the query string, then lets
// a POST body (JSON or form) override them
func bindResolveRequest(c *gin.Context) (*domain.ResolveRequest, error) {
	var req domain.ResolveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, domain.NewResolveError(domain.KindMissingInput, domain.StageIdle, "", err)
	}

	if c.Request.Method != http.MethodPost || c.Request.ContentLength == 0 {
		return &req, nil
	}

	var body domain.ResolveRequest
	var err error
	switch c.ContentType() {
	case binding.MIMEPOSTForm:
		err = c.ShouldBindWith(&body, binding.FormPost)
	case binding.MIMEMultipartPOSTForm:
		err = c.ShouldBindWith(&body, binding.FormMultipart)
	default:
		err = c.ShouldBindJSON(&body)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, domain.NewResolveError(domain.KindMissingInput, domain.StageIdle, "", err)
	}

	if strings.TrimSpace(body.URL) != "" {
		req.URL = body.URL
	}
	if strings.TrimSpace(body.Platform) != "" {
		req.Platform = body.Platform
	}
	return &req, nil
}

func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)

	var platform domain.Platform
	var re *domain.ResolveError
	if errors.As(err, &re) && domain.ValidatePlatform(re.Platform) {
		platform = re.Platform
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.HTTPStatus(), domain.NewErrorResponse(platform, kind.Message()))
}
