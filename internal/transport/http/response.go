package httptransport

import "github.com/gin-gonic/gin"

// RespondDetail writes a failure payload in the `{"detail": ...}` shape the
// original frontend consumes. detail may be a string or a structured object.
func RespondDetail(c *gin.Context, httpStatus int, detail interface{}) {
	c.JSON(httpStatus, gin.H{"detail": detail})
}
