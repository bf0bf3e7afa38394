package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// Page reads the 1-based "page" query parameter. Anything unparseable or
// below 1 becomes page 1.
func Page(c *gin.Context) int {
	page := ParseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	return page
}

// PageOffset converts a 1-based page into a record offset for the given page
// size.
func PageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
