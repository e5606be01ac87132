package util

import "github.com/gin-gonic/gin"

// BindJSON decodes the request body into a typed params struct. The zero
// value comes back alongside the error so callers don't need a second
// declaration before bailing out.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T
	err := c.ShouldBindJSON(&params)
	return params, err
}
