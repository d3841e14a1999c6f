package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var kindStatus = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindExternal:     http.StatusBadGateway,
}

// HTTPStatus maps an error kind to its response status. Untyped errors map
// to 502 via KindOf.
func HTTPStatus(err error) int {
	if status, ok := kindStatus[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Respond writes the canonical {error, code} payload for err.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	message := err.Error()
	if kind == KindExternal {
		// External failures are surfaced as a generic message, never the
		// collaborator's raw error text.
		message = "external service failure"
	}
	c.JSON(HTTPStatus(err), gin.H{"error": message, "code": string(kind)})
}
