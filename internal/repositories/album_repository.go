package repositories

import (
	stderrors "errors"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbumRepository struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// CreateForUser creates the user's album. Registration retries make this
// idempotent on the user_id unique index.
func (r *AlbumRepository) CreateForUser(userID string) (*models.Album, error) {
	album := &models.Album{UserID: userID}

	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(album)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, errors.ErrCodeInternalError, "failed to create album")
	}
	if res.RowsAffected == 0 {
		return r.GetByUserID(userID)
	}

	return album, nil
}

// GetByUserID retrieves the album owned by the user
func (r *AlbumRepository) GetByUserID(userID string) (*models.Album, error) {
	var album models.Album
	result := r.db.Where("user_id = ?", userID).First(&album)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "album not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get album")
	}

	return &album, nil
}

// UpdateAlbum persists background changes
func (r *AlbumRepository) UpdateAlbum(album *models.Album) error {
	result := r.db.Save(album)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update album")
	}
	return nil
}
