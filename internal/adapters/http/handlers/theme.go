package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/domain"
)

// ThemeHandler reads and changes the stored light/dark preference.
type ThemeHandler struct {
	theme *app.ThemeStore
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(theme *app.ThemeStore) *ThemeHandler {
	return &ThemeHandler{theme: theme}
}

// GetTheme handles GET /api/v1/theme
func (h *ThemeHandler) GetTheme(c *gin.Context) {
	theme := h.theme.Get(c.Request.Context())

	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: string(theme)})
}

// SetTheme handles PUT /api/v1/theme
func (h *ThemeHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	theme := domain.Theme(req.Theme)
	if err := h.theme.Set(c.Request.Context(), theme); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: string(theme)})
}

// ToggleTheme handles POST /api/v1/theme/toggle
func (h *ThemeHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.theme.Toggle(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: string(theme)})
}

// RegisterThemeRoutes registers theme routes on the given router group.
func (h *ThemeHandler) RegisterThemeRoutes(rg *gin.RouterGroup) {
	theme := rg.Group("/theme")
	theme.GET("", h.GetTheme)
	theme.PUT("", h.SetTheme)
	theme.POST("/toggle", h.ToggleTheme)
}
