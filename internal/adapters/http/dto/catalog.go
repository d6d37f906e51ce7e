package dto

import "github.com/jsamuelsen/artistly/internal/domain"

// CatalogResponse lists the fixed enumerations used by the forms.
type CatalogResponse struct {
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`
	FeeRanges  []string `json:"feeRanges"`
	Locations  []string `json:"locations"`
}

// NewCatalogResponse builds the catalog from the domain enumerations.
func NewCatalogResponse() CatalogResponse {
	return CatalogResponse{
		Categories: domain.Categories(),
		Languages:  domain.Languages(),
		FeeRanges:  domain.FeeRanges(),
		Locations:  domain.Locations(),
	}
}

// ThemeRequest is the body of PUT /api/v1/theme.
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// ThemeResponse reports the current theme.
type ThemeResponse struct {
	Theme string `json:"theme"`
}
