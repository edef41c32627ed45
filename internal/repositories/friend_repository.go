package repositories

import (
	stderrors "errors"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// GetRequestByID retrieves a friend request by id
func (r *FriendRepository) GetRequestByID(id string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	result := r.db.Where("id = ?", id).First(&req)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "friend request not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get friend request")
	}

	return &req, nil
}

// GetRequestByPair returns the request from one user to another, or nil when
// none exists. The lookup is directional.
func (r *FriendRepository) GetRequestByPair(fromID, toID string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	result := r.db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).First(&req)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check existing request")
	}

	return &req, nil
}

// CreateRequest inserts a new pending request. A concurrent duplicate send
// trips the (from, to) unique index and is reported as DuplicatePending.
func (r *FriendRepository) CreateRequest(fromID, toID string) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.FriendRequestPending,
	}

	if err := r.db.Create(req).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New(errors.ErrCodeDuplicatePending, "friend request already exists")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
	}

	return req, nil
}

// ReopenRequest resets a rejected request back to pending. The row keeps its
// id, so a re-request is the same request born again. Losing a concurrent
// resend race means another send already reopened the row, so RowsAffected
// of zero reports the same DuplicatePending a sequential resend would see.
func (r *FriendRepository) ReopenRequest(requestID string) error {
	result := r.db.Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", requestID, models.FriendRequestRejected).
		Update("status", models.FriendRequestPending)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to reopen friend request")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeDuplicatePending, "a pending friend request already exists")
	}

	return nil
}

// AcceptRequest flips a pending request to accepted and creates the
// friendship in the same transaction. The status update is guarded by a
// conditional WHERE so only one concurrent accept can win; the friendship
// insert is idempotent so a reciprocal accept racing on the other request
// never produces a second row for the pair.
func (r *FriendRepository) AcceptRequest(requestID string) (*models.Friendship, error) {
	var friendship *models.Friendship

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", requestID, models.FriendRequestPending).
			Update("status", models.FriendRequestAccepted)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to accept friend request")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeInvalidState, "friend request is not pending")
		}

		var req models.FriendRequest
		if err := tx.Where("id = ?", requestID).First(&req).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload friend request")
		}

		f, err := ensureFriendship(tx, req.FromUserID, req.ToUserID)
		if err != nil {
			return err
		}
		friendship = f
		return nil
	})

	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// RejectRequest flips a pending request to rejected
func (r *FriendRepository) RejectRequest(requestID string) error {
	result := r.db.Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", requestID, models.FriendRequestPending).
		Update("status", models.FriendRequestRejected)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to reject friend request")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidState, "friend request is not pending")
	}

	return nil
}

// ensureFriendship creates the friendship for the pair unless it already
// exists. Pairs are stored in canonical order, so one lookup covers both
// directions and the unique index backstops the remaining insert race:
// a duplicate-key outcome is treated as already-exists, never as an error.
func ensureFriendship(tx *gorm.DB, userA, userB string) (*models.Friendship, error) {
	u1, u2 := models.OrderedPair(userA, userB)

	var existing models.Friendship
	err := tx.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check friendship")
	}

	friendship := &models.Friendship{User1ID: u1, User2ID: u2}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(friendship)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, errors.ErrCodeInternalError, "failed to create friendship")
	}
	if res.RowsAffected == 0 {
		if err := tx.Where("user1_id = ? AND user2_id = ?", u1, u2).First(friendship).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload friendship")
		}
	}

	return friendship, nil
}

// FriendshipExists checks symmetrically whether two users are friends
func (r *FriendRepository) FriendshipExists(userA, userB string) (bool, error) {
	u1, u2 := models.OrderedPair(userA, userB)

	var count int64
	result := r.db.Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}

// ListPendingReceived retrieves pending requests addressed to the user,
// newest first
func (r *FriendRepository) ListPendingReceived(userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest

	err := r.db.Where("to_user_id = ? AND status = ?", userID, models.FriendRequestPending).
		Preload("FromUser").
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get received requests")
	}

	return requests, nil
}

// ListPendingSent retrieves pending requests the user has sent, newest first
func (r *FriendRepository) ListPendingSent(userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest

	err := r.db.Where("from_user_id = ? AND status = ?", userID, models.FriendRequestPending).
		Preload("ToUser").
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get sent requests")
	}

	return requests, nil
}

// ListFriendships retrieves all friendship rows touching the user, with both
// endpoint accounts loaded
func (r *FriendRepository) ListFriendships(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship

	err := r.db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Preload("User1").
		Preload("User2").
		Order("created_at DESC").
		Find(&friendships).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friendships")
	}

	return friendships, nil
}

// CountFriends returns the user's friend count
func (r *FriendRepository) CountFriends(userID string) (int64, error) {
	var count int64
	result := r.db.Model(&models.Friendship{}).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count friends")
	}

	return count, nil
}
