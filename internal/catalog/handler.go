package catalog

import (
	"net/http"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/roles"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/catalog", security.Authorize(roles.Personnel), h.ListByCategory)
}

func (h *Handler) ListByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required", "code": "validation"})
		return
	}

	items, err := h.service.ListActive(c.Request.Context(), category)
	if err != nil {
		h.log.Error("catalog listing failed", zap.String("category", category), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
