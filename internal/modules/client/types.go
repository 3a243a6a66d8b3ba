package client

import "github.com/wiztheplanning/blogflow/internal/models"

// CreateClientDTO is the request body for registering a client.
type CreateClientDTO struct {
	Name           string            `json:"name"          binding:"required"`
	Region         string            `json:"region"        binding:"required"`
	BusinessType   string            `json:"business_type" binding:"required"`
	MainService    *string           `json:"main_service"`
	Differentiator *string           `json:"differentiator"`
	Contact        *string           `json:"contact"`
	Memo           *string           `json:"memo"`
	ClientType     models.ClientType `json:"client_type"   binding:"omitempty,oneof=template custom"`
	Manager        *string           `json:"manager"`
}

// UpdateClientDTO is the request body for updating a client. All fields
// optional; is_active may be flipped back on to reactivate.
type UpdateClientDTO struct {
	Name           *string            `json:"name"`
	Region         *string            `json:"region"`
	BusinessType   *string            `json:"business_type"`
	MainService    *string            `json:"main_service"`
	Differentiator *string            `json:"differentiator"`
	Contact        *string            `json:"contact"`
	Memo           *string            `json:"memo"`
	IsActive       *bool              `json:"is_active"`
	ClientType     *models.ClientType `json:"client_type" binding:"omitempty,oneof=template custom"`
	Manager        *string            `json:"manager"`
}

// ListQuery holds query params for listing clients.
type ListQuery struct {
	Search       string `form:"search"`
	BusinessType string `form:"business_type"`
	IsActive     *bool  `form:"is_active"`
	ClientType   string `form:"client_type"`
	Manager      string `form:"manager"`
}
