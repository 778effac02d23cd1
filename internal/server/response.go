package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wardbooklabs/wardbook/pkg/db/pagination"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func respondList[T any](c *gin.Context, items []T, info *pagination.PageInfo) {
	if items == nil {
		items = []T{}
	}
	body := gin.H{"data": items}
	if info != nil {
		body["page_info"] = info
	}
	c.JSON(http.StatusOK, body)
}
