package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/internal/security"
	"github.com/waylo/waylo-api/pkg/errors"
	"github.com/waylo/waylo-api/pkg/logger"
	"github.com/waylo/waylo-api/pkg/utils"
)

var allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif"}

const thumbnailMaxSize = 200

type FeedService struct {
	feedRepo  *repositories.FeedRepository
	userRepo  *repositories.UserRepository
	mediaRoot string
	mediaURL  string
}

func NewFeedService(feedRepo *repositories.FeedRepository, userRepo *repositories.UserRepository, mediaRoot, mediaURL string) *FeedService {
	return &FeedService{
		feedRepo:  feedRepo,
		userRepo:  userRepo,
		mediaRoot: mediaRoot,
		mediaURL:  mediaURL,
	}
}

type CreateFeedInput struct {
	Latitude     float64
	Longitude    float64
	CountryCode  string
	Description  string
	Visibility   string
	PhotoTakenAt *time.Time
	ExtraData    string
	Image        io.Reader
	ImageName    string
}

// CreateFeed stores the uploaded image under the media root, renders a
// thumbnail and persists the feed row. When the client sends no taken-at
// time, the image's EXIF date is used if present.
func (s *FeedService) CreateFeed(actorID string, input CreateFeedInput) (*models.Feed, error) {
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return nil, errors.New(errors.ErrCodeValidation, "invalid coordinates")
	}
	if input.Image == nil {
		return nil, errors.New(errors.ErrCodeValidation, "image is required")
	}
	if !security.ValidateFileType(input.ImageName, allowedImageTypes) {
		return nil, errors.New(errors.ErrCodeValidation, "unsupported image type")
	}

	data, err := io.ReadAll(input.Image)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to read image")
	}

	fileName := fmt.Sprintf("%s_%s_%s", time.Now().UTC().Format("20060102150405"),
		utils.GenerateRandomID(6), utils.SanitizeFilename(input.ImageName))
	feedDir := filepath.Join(s.mediaRoot, actorID, "feeds")
	if err := os.MkdirAll(feedDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to prepare media directory")
	}

	if err := os.WriteFile(filepath.Join(feedDir, fileName), data, 0o644); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to store image")
	}

	takenAt := input.PhotoTakenAt
	if takenAt == nil {
		takenAt = extractExifDate(data)
	}

	thumbName := "thumb_" + fileName
	thumbURL := ""
	if err := s.writeThumbnail(data, filepath.Join(feedDir, thumbName)); err != nil {
		// A feed without a thumbnail is still usable
		logger.Warn("thumbnail generation failed", "file", fileName, "error", err)
	} else {
		thumbURL = path.Join(s.mediaURL, actorID, "feeds", thumbName)
	}

	feed := &models.Feed{
		UserID:       actorID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		CountryCode:  input.CountryCode,
		ImageURL:     path.Join(s.mediaURL, actorID, "feeds", fileName),
		ThumbnailURL: thumbURL,
		Description:  security.SanitizeUserText(input.Description),
		Visibility:   input.Visibility,
		PhotoTakenAt: takenAt,
		ExtraData:    input.ExtraData,
	}

	if err := s.feedRepo.CreateFeed(feed); err != nil {
		// Do not leave orphaned files behind when the row never lands
		_ = os.Remove(filepath.Join(feedDir, fileName))
		if thumbURL != "" {
			_ = os.Remove(filepath.Join(feedDir, thumbName))
		}
		return nil, err
	}

	return feed, nil
}

func (s *FeedService) writeThumbnail(data []byte, dst string) error {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	thumb := imaging.Fit(img, thumbnailMaxSize, thumbnailMaxSize, imaging.Lanczos)
	return imaging.Save(thumb, dst, imaging.JPEGQuality(85))
}

func extractExifDate(data []byte) *time.Time {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	tm, err := x.DateTime()
	if err != nil {
		return nil
	}
	return &tm
}

// FeedUpdate holds partial feed changes. ClearPhotoTakenAt discards the
// stored taken-at time and falls back to the image's EXIF date, when any.
type FeedUpdate struct {
	CountryCode       *string
	Description       *string
	Visibility        *string
	PhotoTakenAt      *time.Time
	ClearPhotoTakenAt bool
	ExtraData         *string
}

// UpdateFeed applies partial changes to the actor's own feed.
func (s *FeedService) UpdateFeed(feedID, actorID string, update FeedUpdate) (*models.Feed, error) {
	feed, err := s.feedRepo.GetByID(feedID)
	if err != nil {
		return nil, err
	}
	if feed.UserID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "cannot update another user's feed")
	}

	if update.CountryCode != nil {
		feed.CountryCode = security.SanitizeString(*update.CountryCode)
	}
	if update.Description != nil {
		feed.Description = security.SanitizeUserText(*update.Description)
	}
	if update.Visibility != nil {
		v := *update.Visibility
		if v != models.VisibilityPublic && v != models.VisibilityPrivate {
			return nil, errors.New(errors.ErrCodeValidation, "visibility must be public or private")
		}
		feed.Visibility = v
	}
	if update.ExtraData != nil {
		feed.ExtraData = *update.ExtraData
	}
	if update.PhotoTakenAt != nil {
		feed.PhotoTakenAt = update.PhotoTakenAt
	} else if update.ClearPhotoTakenAt {
		feed.PhotoTakenAt = s.storedExifDate(feed.ImageURL)
	}

	if err := s.feedRepo.UpdateFeed(feed); err != nil {
		return nil, err
	}

	return feed, nil
}

// storedExifDate re-reads the stored image for its EXIF date. Returns nil
// when the file is gone or carries no date.
func (s *FeedService) storedExifDate(imageURL string) *time.Time {
	rel := strings.TrimPrefix(imageURL, s.mediaURL)
	data, err := os.ReadFile(filepath.Join(s.mediaRoot, filepath.FromSlash(rel)))
	if err != nil {
		return nil
	}
	return extractExifDate(data)
}

// GetFeed returns a feed; private feeds are visible to their author only.
func (s *FeedService) GetFeed(feedID, viewerID string) (*models.Feed, error) {
	feed, err := s.feedRepo.GetByID(feedID)
	if err != nil {
		return nil, err
	}

	if feed.Visibility == models.VisibilityPrivate && feed.UserID != viewerID {
		return nil, errors.New(errors.ErrCodeForbidden, "not allowed to view this feed")
	}

	return feed, nil
}

// ListPublic returns a page of public feeds with the total count
func (s *FeedService) ListPublic(page, limit int) ([]models.Feed, int64, error) {
	return s.feedRepo.ListPublic(page, limit)
}

// ListUserFeeds returns a user's feeds; private ones only for the owner
func (s *FeedService) ListUserFeeds(userID, viewerID string) ([]models.Feed, error) {
	return s.feedRepo.ListByUser(userID, userID == viewerID)
}

// ListNearby returns public feeds around a point, nearest first
func (s *FeedService) ListNearby(lat, lng, radiusKm float64, limit int) ([]repositories.NearbyFeed, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.New(errors.ErrCodeValidation, "invalid coordinates")
	}
	if radiusKm <= 0 || radiusKm > 20000 {
		return nil, errors.New(errors.ErrCodeValidation, "radius must be between 0 and 20000 km")
	}

	return s.feedRepo.ListNearby(lat, lng, radiusKm, limit)
}

// DeleteFeed removes the actor's own feed
func (s *FeedService) DeleteFeed(feedID, actorID string) error {
	return s.feedRepo.DeleteFeed(feedID, actorID)
}

// ToggleLike flips the actor's like on a feed
func (s *FeedService) ToggleLike(feedID, actorID string) (bool, error) {
	if _, err := s.feedRepo.GetByID(feedID); err != nil {
		return false, err
	}
	return s.feedRepo.ToggleLike(actorID, feedID)
}

// ToggleBookmark flips the actor's bookmark on a feed
func (s *FeedService) ToggleBookmark(feedID, actorID string) (bool, error) {
	if _, err := s.feedRepo.GetByID(feedID); err != nil {
		return false, err
	}
	return s.feedRepo.ToggleBookmark(actorID, feedID)
}

// AddComment attaches a sanitized comment to a feed. A non-nil parentID
// makes it a reply; the parent must be a comment on the same feed.
func (s *FeedService) AddComment(feedID, actorID, content string, parentID *string) (*models.FeedComment, error) {
	content = security.SanitizeUserText(content)
	if content == "" {
		return nil, errors.New(errors.ErrCodeValidation, "comment content is required")
	}

	if _, err := s.feedRepo.GetByID(feedID); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.feedRepo.GetCommentByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent.FeedID != feedID {
			return nil, errors.New(errors.ErrCodeValidation, "parent comment belongs to a different feed")
		}
	}

	comment := &models.FeedComment{
		FeedID:   feedID,
		UserID:   actorID,
		ParentID: parentID,
		Content:  content,
	}

	if err := s.feedRepo.CreateComment(comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// DeleteComment removes a comment. The comment's author and the feed's
// author may delete; replies cascade with the parent.
func (s *FeedService) DeleteComment(feedID, commentID, actorID string) error {
	feed, err := s.feedRepo.GetByID(feedID)
	if err != nil {
		return err
	}

	comment, err := s.feedRepo.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment.FeedID != feedID {
		return errors.New(errors.ErrCodeNotFound, "comment not found")
	}
	if comment.UserID != actorID && feed.UserID != actorID {
		return errors.New(errors.ErrCodeForbidden, "cannot delete another user's comment")
	}

	return s.feedRepo.DeleteComment(commentID)
}

// ListComments returns a feed's comments, newest first
func (s *FeedService) ListComments(feedID string) ([]models.FeedComment, error) {
	if _, err := s.feedRepo.GetByID(feedID); err != nil {
		return nil, err
	}
	return s.feedRepo.ListComments(feedID)
}

// ToggleCommentLike flips the actor's like on a comment
func (s *FeedService) ToggleCommentLike(commentID, actorID string) (bool, error) {
	return s.feedRepo.ToggleCommentLike(actorID, commentID)
}
