package template

import (
	"errors"

	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns active templates ranked by confirm performance.
func (s *Service) List(q pagination.Query, filter ListQuery) ([]models.TemplateModel, response.Pagination, error) {
	tx := s.db.Model(&models.TemplateModel{}).
		Where("is_active = ?", true).
		Order("approve_count DESC").
		Order("send_count DESC")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		tx = tx.Where("title LIKE ? OR topic LIKE ?", like, like)
	}
	if filter.BusinessType != "" {
		tx = tx.Where("business_type = ?", filter.BusinessType)
	}
	if filter.Month != nil {
		tx = tx.Where("month = ?", *filter.Month)
	}

	var items []models.TemplateModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.TemplateModel, error) {
	var t models.TemplateModel
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) Create(dto *CreateTemplateDTO) (*models.TemplateModel, error) {
	t := models.TemplateModel{
		BusinessType: dto.BusinessType,
		Month:        dto.Month,
		Week:         dto.Week,
		Topic:        dto.Topic,
		Title:        dto.Title,
		Content:      dto.Content,
		IsActive:     true,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Update(id string, dto *UpdateTemplateDTO) (*models.TemplateModel, error) {
	t, err := s.GetByID(id)
	if err != nil || t == nil {
		return t, err
	}

	updates := map[string]interface{}{}
	if dto.BusinessType != nil {
		updates["business_type"] = *dto.BusinessType
	}
	if dto.Month != nil {
		updates["month"] = *dto.Month
	}
	if dto.Week != nil {
		updates["week"] = *dto.Week
	}
	if dto.Topic != nil {
		updates["topic"] = *dto.Topic
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if len(updates) == 0 {
		return t, nil
	}
	if err := s.db.Model(t).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete soft-deactivates a template; the record and its counters survive.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Model(&models.TemplateModel{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
