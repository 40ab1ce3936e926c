package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// tagService handles tag-related business logic.
type tagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagServicer.
func NewTagService(db *gorm.DB) TagServicer {
	return &tagService{db: db}
}

// CreateTag creates a new tag for a user.
func (s *tagService) CreateTag(userID, name, description string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	tag := &models.Tag{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	if err := s.db.Create(tag).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return tag, nil
}

// GetUserTags retrieves a paginated list of tags for a user.
func (s *tagService) GetUserTags(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Tag{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tags []models.Tag
	if err := base.Scopes(pagination.Paginate(page)).Order("id").Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tags, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTagByID retrieves a tag by ID if it belongs to the user.
func (s *tagService) GetTagByID(userID string, tagID uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tag, nil
}

// UpdateTag updates an existing tag's fields.
func (s *tagService) UpdateTag(userID string, tagID uint, name, description string) (*models.Tag, error) {
	tag, err := s.GetTagByID(userID, tagID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(tag).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return tag, nil
}

// DeleteTag deletes a tag. Transactions referencing the tag keep their
// amounts but lose the label.
func (s *tagService) DeleteTag(userID string, tagID uint) error {
	tag, err := s.GetTagByID(userID, tagID)
	if err != nil {
		return err
	}

	if err := s.db.Model(&models.Expense{}).Where("tag_id = ?", tagID).Update("tag_id", nil).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Income{}).Where("tag_id = ?", tagID).Update("tag_id", nil).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(tag).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
