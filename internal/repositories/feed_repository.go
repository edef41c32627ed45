package repositories

import (
	stderrors "errors"
	"math"
	"sort"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// CreateFeed inserts a new feed
func (r *FeedRepository) CreateFeed(feed *models.Feed) error {
	if err := r.db.Create(feed).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create feed")
	}
	return nil
}

// GetByID retrieves a feed with its author
func (r *FeedRepository) GetByID(id string) (*models.Feed, error) {
	var feed models.Feed
	result := r.db.Preload("User").Where("id = ?", id).First(&feed)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "feed not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get feed")
	}

	return &feed, nil
}

// ListPublic returns a page of public feeds, newest first, with the total
// count of public feeds
func (r *FeedRepository) ListPublic(page, limit int) ([]models.Feed, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := r.db.Model(&models.Feed{}).
		Where("visibility = ?", models.VisibilityPublic).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count feeds")
	}

	var feeds []models.Feed
	err := r.db.Preload("User").
		Where("visibility = ?", models.VisibilityPublic).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&feeds).Error

	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list feeds")
	}

	return feeds, total, nil
}

// ListByUser returns a user's feeds, newest first. Private feeds are included
// only when the viewer is the owner.
func (r *FeedRepository) ListByUser(userID string, includePrivate bool) ([]models.Feed, error) {
	query := r.db.Preload("User").Where("user_id = ?", userID)
	if !includePrivate {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}

	var feeds []models.Feed
	if err := query.Order("created_at DESC").Find(&feeds).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list user feeds")
	}

	return feeds, nil
}

// DeleteFeed removes a feed owned by the user
func (r *FeedRepository) DeleteFeed(feedID, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", feedID, userID).Delete(&models.Feed{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete feed")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "feed not found")
	}

	return nil
}

// ToggleLike likes the feed when no like exists, otherwise removes it. The
// denormalized counter moves with the edge inside one transaction. Returns
// whether the feed is liked after the call.
func (r *FeedRepository) ToggleLike(userID, feedID string) (bool, error) {
	liked := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		like := &models.FeedLike{UserID: userID, FeedID: feedID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = true
			return tx.Model(&models.Feed{}).Where("id = ?", feedID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		}

		if err := tx.Where("user_id = ? AND feed_id = ?", userID, feedID).
			Delete(&models.FeedLike{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Feed{}).Where("id = ? AND likes_count > 0", feedID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})

	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to toggle like")
	}
	return liked, nil
}

// ToggleBookmark mirrors ToggleLike for bookmarks
func (r *FeedRepository) ToggleBookmark(userID, feedID string) (bool, error) {
	bookmarked := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		bookmark := &models.FeedBookmark{UserID: userID, FeedID: feedID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			bookmarked = true
			return tx.Model(&models.Feed{}).Where("id = ?", feedID).
				UpdateColumn("bookmarks_count", gorm.Expr("bookmarks_count + 1")).Error
		}

		if err := tx.Where("user_id = ? AND feed_id = ?", userID, feedID).
			Delete(&models.FeedBookmark{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Feed{}).Where("id = ? AND bookmarks_count > 0", feedID).
			UpdateColumn("bookmarks_count", gorm.Expr("bookmarks_count - 1")).Error
	})

	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to toggle bookmark")
	}
	return bookmarked, nil
}

// UpdateFeed persists changed feed fields. Save writes every column, so a
// nil PhotoTakenAt clears the stored value.
func (r *FeedRepository) UpdateFeed(feed *models.Feed) error {
	if err := r.db.Save(feed).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update feed")
	}
	return nil
}

// GetCommentByID retrieves a comment
func (r *FeedRepository) GetCommentByID(id string) (*models.FeedComment, error) {
	var comment models.FeedComment
	result := r.db.Where("id = ?", id).First(&comment)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "comment not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get comment")
	}

	return &comment, nil
}

// DeleteComment removes a comment; replies and likes cascade with it
func (r *FeedRepository) DeleteComment(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.FeedComment{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete comment")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "comment not found")
	}

	return nil
}

// CreateComment inserts a comment
func (r *FeedRepository) CreateComment(comment *models.FeedComment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create comment")
	}
	return nil
}

// ListComments retrieves a feed's comments, newest first
func (r *FeedRepository) ListComments(feedID string) ([]models.FeedComment, error) {
	var comments []models.FeedComment

	err := r.db.Preload("User").
		Where("feed_id = ?", feedID).
		Order("created_at DESC").
		Find(&comments).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list comments")
	}

	return comments, nil
}

// ToggleCommentLike mirrors ToggleLike for comment likes
func (r *FeedRepository) ToggleCommentLike(userID, commentID string) (bool, error) {
	liked := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		like := &models.CommentLike{UserID: userID, CommentID: commentID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = true
			return tx.Model(&models.FeedComment{}).Where("id = ?", commentID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		}

		if err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.FeedComment{}).Where("id = ? AND likes_count > 0", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})

	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to toggle comment like")
	}
	return liked, nil
}

const earthRadiusKm = 6371.0

// NearbyFeed pairs a feed with its distance from the query point.
type NearbyFeed struct {
	Feed       models.Feed
	DistanceKm float64
}

// ListNearby returns public feeds within radiusKm of the point, nearest
// first. Candidates are narrowed with a bounding box in SQL; exact haversine
// distances are computed on the candidates.
func (r *FeedRepository) ListNearby(lat, lng, radiusKm float64, limit int) ([]NearbyFeed, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	latDelta := radiusKm / 111.0
	lngDelta := radiusKm / (111.0 * math.Cos(lat*math.Pi/180.0))
	if math.IsInf(lngDelta, 0) || math.IsNaN(lngDelta) {
		lngDelta = 180.0
	}

	var candidates []models.Feed
	err := r.db.Preload("User").
		Where("visibility = ?", models.VisibilityPublic).
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lng-lngDelta, lng+lngDelta).
		Find(&candidates).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to search nearby feeds")
	}

	nearby := make([]NearbyFeed, 0, len(candidates))
	for _, f := range candidates {
		d := haversineKm(lat, lng, f.Latitude, f.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, NearbyFeed{Feed: f, DistanceKm: d})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
