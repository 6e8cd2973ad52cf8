// Package params parses path parameters shared by the feature handlers.
package params

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/shared/apierror"
)

// UintID parses the named path parameter as a positive id.
// On failure it aborts with a 400 validation body and returns false.
func UintID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.Single(name, fmt.Sprintf("%s must be a positive integer", name)))
		return 0, false
	}
	return uint(id), true
}
