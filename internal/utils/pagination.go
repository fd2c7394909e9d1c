package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	pkgutils "github.com/bilalmirza74/fides/pkg/utils"
)

// Page is the paginated listing envelope
type Page struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// NewPage builds a listing envelope. A nil items slice serializes as an
// empty array, not null.
func NewPage(items interface{}, total, page, size int) *Page {
	if items == nil {
		items = []interface{}{}
	}
	return &Page{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
	}
}

// ParsePageParams reads page and size query parameters, clamping both to
// their allowed ranges
func ParsePageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	return pkgutils.ValidatePage(page), pkgutils.ValidatePageSize(size)
}
