package routes

import (
	"net/http"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/catalog"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/repository"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/requests"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/users"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, repo *repository.Repository) {
	security.NewLoginHandler(repo).RegisterRoutes(router)
}

func RegisterProtectedRoutes(
	router *gin.Engine,
	requestsHandler *requests.Handler,
	catalogHandler *catalog.Handler,
	usersHandler *users.UsersHandler,
) {
	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(security.JWTMiddleware())

	requestsHandler.RegisterRoutes(protectedRoutes)
	catalogHandler.RegisterRoutes(protectedRoutes)
	usersHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
