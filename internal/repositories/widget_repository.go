package repositories

import (
	stderrors "errors"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"gorm.io/gorm"
)

type WidgetRepository struct {
	db *gorm.DB
}

func NewWidgetRepository(db *gorm.DB) *WidgetRepository {
	return &WidgetRepository{db: db}
}

// ListByAlbum retrieves all widgets on an album
func (r *WidgetRepository) ListByAlbum(albumID string) ([]models.Widget, error) {
	var widgets []models.Widget

	err := r.db.Where("album_id = ?", albumID).
		Order("created_at ASC").
		Find(&widgets).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list widgets")
	}

	return widgets, nil
}

// CreateWidget inserts a new widget
func (r *WidgetRepository) CreateWidget(widget *models.Widget) error {
	if err := r.db.Create(widget).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create widget")
	}
	return nil
}

// GetByID retrieves a widget scoped to its album
func (r *WidgetRepository) GetByID(albumID, widgetID string) (*models.Widget, error) {
	var widget models.Widget
	result := r.db.Where("id = ? AND album_id = ?", widgetID, albumID).First(&widget)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "widget not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get widget")
	}

	return &widget, nil
}

// UpdateWidget persists widget changes
func (r *WidgetRepository) UpdateWidget(widget *models.Widget) error {
	result := r.db.Save(widget)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update widget")
	}
	return nil
}

// DeleteWidget removes a widget scoped to its album
func (r *WidgetRepository) DeleteWidget(albumID, widgetID string) error {
	result := r.db.Where("id = ? AND album_id = ?", widgetID, albumID).Delete(&models.Widget{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete widget")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "widget not found")
	}

	return nil
}
