package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
)

// Catalog handles GET /api/v1/catalog
// Returns the categories, languages, fee ranges and locations the forms offer.
func Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCatalogResponse())
}
