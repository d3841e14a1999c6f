package requests

import (
	"fmt"
	"net/http"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/voucher"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/roles"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	layout  voucher.Layout
	log     *zap.Logger
}

func NewHandler(service *Service, layout voucher.Layout, log *zap.Logger) *Handler {
	return &Handler{service: service, layout: layout, log: log}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/requests", security.Authorize(roles.Personnel), h.Submit)
	router.GET("/requests", security.Authorize(roles.Warehouse), h.Inbox)
	router.POST("/requests/:id/attend", security.Authorize(roles.Warehouse), h.Attend)
	router.POST("/requests/:id/cancel", security.Authorize(roles.Warehouse), h.Cancel)
	router.GET("/requests/:id/voucher.xlsx", security.Authorize(roles.Warehouse), h.DownloadVoucher)
}

func (h *Handler) Submit(c *gin.Context) {
	var req struct {
		Items []SubmitItem `json:"items"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "code": "validation"})
		return
	}

	requester, err := security.GetDisplayNameFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity", "code": "unauthorized"})
		return
	}

	group, err := h.service.Submit(c.Request.Context(), requester, req.Items)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindExternal {
			h.log.Error("request submission failed", zap.Error(err))
		}
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (h *Handler) Inbox(c *gin.Context) {
	groups, err := h.service.Inbox(c.Request.Context(), c.Query("status"))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindExternal {
			h.log.Error("inbox listing failed", zap.Error(err))
		}
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": groups})
}

func (h *Handler) Attend(c *gin.Context) {
	requestID := c.Param("id")

	handledBy, err := security.GetDisplayNameFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity", "code": "unauthorized"})
		return
	}

	if err := h.service.Attend(c.Request.Context(), requestID, handledBy); err != nil {
		if apperrors.KindOf(err) == apperrors.KindExternal {
			h.log.Error("attend failed", zap.String("request_id", requestID), zap.Error(err))
		}
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request attended", "request_id": requestID})
}

func (h *Handler) Cancel(c *gin.Context) {
	requestID := c.Param("id")

	handledBy, err := security.GetDisplayNameFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity", "code": "unauthorized"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), requestID, handledBy); err != nil {
		if apperrors.KindOf(err) == apperrors.KindExternal {
			h.log.Error("cancel failed", zap.String("request_id", requestID), zap.Error(err))
		}
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled", "request_id": requestID})
}

func (h *Handler) DownloadVoucher(c *gin.Context) {
	requestID := c.Param("id")

	v, err := h.service.Voucher(c.Request.Context(), requestID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	buf, err := voucher.ExportXLSX(*v, h.layout)
	if err != nil {
		h.log.Error("voucher export failed", zap.String("request_id", requestID), zap.Error(err))
		apperrors.Respond(c, err)
		return
	}

	filename := fmt.Sprintf("vale-%s.xlsx", requestID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
