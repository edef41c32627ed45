package repositories

import (
	stderrors "errors"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetByKey resolves a token key to the token and its owning account.
func (r *TokenRepository) GetByKey(key string) (*models.AuthToken, error) {
	var token models.AuthToken
	result := r.db.Preload("User").Where("key = ?", key).First(&token)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeInvalidCredential, "invalid token")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to look up token")
	}

	return &token, nil
}

// GetOrCreate returns the account's token, minting it on first login. The
// insert uses ON CONFLICT DO NOTHING against the user_id unique index, so a
// concurrent first login loses the race cleanly and re-reads the winner's
// row; an account never ends up with two tokens.
func (r *TokenRepository) GetOrCreate(userID string) (*models.AuthToken, error) {
	var token models.AuthToken

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&token).Error
		if err == nil {
			return nil
		}
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		token = models.AuthToken{UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&token)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Where("user_id = ?", userID).First(&token).Error
		}
		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}

	return &token, nil
}
