package template

// CreateTemplateDTO is the request body for creating a template.
type CreateTemplateDTO struct {
	BusinessType string  `json:"business_type" binding:"required"`
	Month        int     `json:"month"         binding:"required,min=1,max=12"`
	Week         *int    `json:"week"          binding:"omitempty,min=1,max=5"`
	Topic        *string `json:"topic"`
	Title        string  `json:"title"         binding:"required"`
	Content      string  `json:"content"       binding:"required"`
}

// UpdateTemplateDTO is the request body for updating a template. Counter
// fields are deliberately absent: send_count/approve_count belong to the
// lifecycle engine.
type UpdateTemplateDTO struct {
	BusinessType *string `json:"business_type"`
	Month        *int    `json:"month"   binding:"omitempty,min=1,max=12"`
	Week         *int    `json:"week"    binding:"omitempty,min=1,max=5"`
	Topic        *string `json:"topic"`
	Title        *string `json:"title"`
	Content      *string `json:"content"`
}

// ListQuery holds query params for listing templates.
type ListQuery struct {
	Search       string `form:"search"`
	BusinessType string `form:"business_type"`
	Month        *int   `form:"month"`
}
