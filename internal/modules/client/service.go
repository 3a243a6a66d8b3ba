package client

import (
	"errors"

	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns clients, newest first. Unless is_active is given explicitly
// only active clients are returned.
func (s *Service) List(q pagination.Query, filter ListQuery) ([]models.ClientModel, response.Pagination, error) {
	tx := s.db.Model(&models.ClientModel{}).Order("created_at DESC")

	if filter.IsActive != nil {
		tx = tx.Where("is_active = ?", *filter.IsActive)
	} else {
		tx = tx.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		tx = tx.Where("name LIKE ? OR region LIKE ?", like, like)
	}
	if filter.BusinessType != "" {
		tx = tx.Where("business_type = ?", filter.BusinessType)
	}
	if filter.ClientType != "" {
		tx = tx.Where("client_type = ?", filter.ClientType)
	}
	if filter.Manager != "" {
		tx = tx.Where("manager = ?", filter.Manager)
	}

	var items []models.ClientModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.ClientModel, error) {
	var cl models.ClientModel
	if err := s.db.First(&cl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cl, nil
}

func (s *Service) Create(dto *CreateClientDTO) (*models.ClientModel, error) {
	ct := dto.ClientType
	if ct == "" {
		ct = models.ClientTypeTemplate
	}
	cl := models.ClientModel{
		Name:           dto.Name,
		Region:         dto.Region,
		BusinessType:   dto.BusinessType,
		MainService:    dto.MainService,
		Differentiator: dto.Differentiator,
		Contact:        dto.Contact,
		Memo:           dto.Memo,
		IsActive:       true,
		ClientType:     ct,
		Manager:        dto.Manager,
	}
	if err := s.db.Create(&cl).Error; err != nil {
		return nil, err
	}
	return &cl, nil
}

func (s *Service) Update(id string, dto *UpdateClientDTO) (*models.ClientModel, error) {
	cl, err := s.GetByID(id)
	if err != nil || cl == nil {
		return cl, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Region != nil {
		updates["region"] = *dto.Region
	}
	if dto.BusinessType != nil {
		updates["business_type"] = *dto.BusinessType
	}
	if dto.MainService != nil {
		updates["main_service"] = *dto.MainService
	}
	if dto.Differentiator != nil {
		updates["differentiator"] = *dto.Differentiator
	}
	if dto.Contact != nil {
		updates["contact"] = *dto.Contact
	}
	if dto.Memo != nil {
		updates["memo"] = *dto.Memo
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if dto.ClientType != nil {
		updates["client_type"] = *dto.ClientType
	}
	if dto.Manager != nil {
		updates["manager"] = *dto.Manager
	}
	if len(updates) == 0 {
		return cl, nil
	}
	if err := s.db.Model(cl).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete soft-deactivates a client. Manuscript history is untouched.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Model(&models.ClientModel{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
