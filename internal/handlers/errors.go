package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mossy-p/ballo/internal/apperrors"
)

// respondError writes err as {"error", "code", "metadata"} with the status
// mapped from its code. Uncoded errors become 500s.
func respondError(c *gin.Context, err error) {
	e, ok := apperrors.As(err)
	if !ok {
		e = apperrors.Wrap(apperrors.CodeInternal, "internal error", err)
	}

	status := e.Code.HTTPStatus()
	if status >= 500 {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}

	body := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}
	if len(e.Metadata) > 0 {
		body["metadata"] = e.Metadata
	}
	c.AbortWithStatusJSON(status, body)
}

// badRequest reports a body or query that failed binding.
func badRequest(c *gin.Context, err error) {
	respondError(c, apperrors.New(apperrors.CodeInvalidArgument, err.Error()))
}
