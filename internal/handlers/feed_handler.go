package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/services"
)

type FeedHandler struct {
	feeds *services.FeedService
}

func NewFeedHandler(feeds *services.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

type feedView struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Username       string     `json:"username,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	CountryCode    string     `json:"country_code,omitempty"`
	ImageURL       string     `json:"image_url"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	Description    string     `json:"description,omitempty"`
	Visibility     string     `json:"visibility"`
	PhotoTakenAt   *time.Time `json:"photo_taken_at,omitempty"`
	ExtraData      string     `json:"extra_data"`
	LikesCount     int64      `json:"likes_count"`
	BookmarksCount int64      `json:"bookmarks_count"`
	CreatedAt      time.Time  `json:"created_at"`

	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func newFeedView(f *models.Feed) feedView {
	return feedView{
		ID:             f.ID,
		UserID:         f.UserID,
		Username:       f.User.Username,
		Latitude:       f.Latitude,
		Longitude:      f.Longitude,
		CountryCode:    f.CountryCode,
		ImageURL:       f.ImageURL,
		ThumbnailURL:   f.ThumbnailURL,
		Description:    f.Description,
		Visibility:     f.Visibility,
		PhotoTakenAt:   f.PhotoTakenAt,
		ExtraData:      f.ExtraData,
		LikesCount:     f.LikesCount,
		BookmarksCount: f.BookmarksCount,
		CreatedAt:      f.CreatedAt,
	}
}

func feedViews(feeds []models.Feed) []feedView {
	views := make([]feedView, 0, len(feeds))
	for i := range feeds {
		views = append(views, newFeedView(&feeds[i]))
	}
	return views
}

// CreateFeed accepts a multipart form: an image part plus coordinate and
// metadata fields.
func (h *FeedHandler) CreateFeed(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid latitude"})
	}
	lng, err := strconv.ParseFloat(c.FormValue("longitude"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid longitude"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read image file"})
	}
	defer file.Close()

	input := services.CreateFeedInput{
		Latitude:    lat,
		Longitude:   lng,
		CountryCode: c.FormValue("country_code"),
		Description: c.FormValue("description"),
		Visibility:  c.FormValue("visibility"),
		ExtraData:   c.FormValue("extra_data"),
		Image:       file,
		ImageName:   fileHeader.Filename,
	}
	if taken := c.FormValue("photo_taken_at"); taken != "" {
		t, err := time.Parse(time.RFC3339, taken)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo_taken_at must be RFC3339"})
		}
		input.PhotoTakenAt = &t
	}

	actor := middleware.CurrentUser(c)
	feed, err := h.feeds.CreateFeed(actor.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newFeedView(feed))
}

func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID := ""
	if viewer := middleware.CurrentUser(c); viewer != nil {
		viewerID = viewer.ID
	}

	feed, err := h.feeds.GetFeed(c.Param("id"), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newFeedView(feed))
}

func (h *FeedHandler) ListPublic(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	feeds, total, err := h.feeds.ListPublic(page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"feeds": feedViews(feeds),
	})
}

func (h *FeedHandler) ListUserFeeds(c echo.Context) error {
	viewerID := ""
	if viewer := middleware.CurrentUser(c); viewer != nil {
		viewerID = viewer.ID
	}

	feeds, err := h.feeds.ListUserFeeds(c.Param("id"), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, feedViews(feeds))
}

func (h *FeedHandler) ListNearby(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lat"})
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lng"})
	}
	radius, err := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if err != nil {
		radius = 10
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	nearby, err := h.feeds.ListNearby(lat, lng, radius, limit)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]feedView, 0, len(nearby))
	for i := range nearby {
		v := newFeedView(&nearby[i].Feed)
		d := nearby[i].DistanceKm
		v.DistanceKm = &d
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}

type updateFeedRequest struct {
	CountryCode  *string `json:"country_code"`
	Description  *string `json:"description"`
	Visibility   *string `json:"visibility"`
	ExtraData    *string `json:"extra_data"`
	PhotoTakenAt *string `json:"photo_taken_at"`
}

// UpdateFeed applies partial changes. Sending photo_taken_at as an empty
// string discards the stored date and re-reads it from the image's EXIF.
func (h *FeedHandler) UpdateFeed(c echo.Context) error {
	var req updateFeedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	update := services.FeedUpdate{
		CountryCode: req.CountryCode,
		Description: req.Description,
		Visibility:  req.Visibility,
		ExtraData:   req.ExtraData,
	}
	if req.PhotoTakenAt != nil {
		if *req.PhotoTakenAt == "" {
			update.ClearPhotoTakenAt = true
		} else {
			t, err := time.Parse(time.RFC3339, *req.PhotoTakenAt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo_taken_at must be RFC3339"})
			}
			update.PhotoTakenAt = &t
		}
	}

	actor := middleware.CurrentUser(c)
	feed, err := h.feeds.UpdateFeed(c.Param("id"), actor.ID, update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newFeedView(feed))
}

func (h *FeedHandler) DeleteFeed(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := h.feeds.DeleteFeed(c.Param("id"), actor.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FeedHandler) ToggleLike(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	liked, err := h.feeds.ToggleLike(c.Param("id"), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

func (h *FeedHandler) ToggleBookmark(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	bookmarked, err := h.feeds.ToggleBookmark(c.Param("id"), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookmarked": bookmarked})
}

type commentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

type commentView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Content    string    `json:"content"`
	LikesCount int64     `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCommentView(cm *models.FeedComment) commentView {
	return commentView{
		ID:         cm.ID,
		UserID:     cm.UserID,
		Username:   cm.User.Username,
		ParentID:   cm.ParentID,
		Content:    cm.Content,
		LikesCount: cm.LikesCount,
		CreatedAt:  cm.CreatedAt,
	}
}

func (h *FeedHandler) AddComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	comment, err := h.feeds.AddComment(c.Param("id"), actor.ID, req.Content, req.ParentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newCommentView(comment))
}

func (h *FeedHandler) DeleteComment(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := h.feeds.DeleteComment(c.Param("id"), c.Param("commentId"), actor.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FeedHandler) ListComments(c echo.Context) error {
	comments, err := h.feeds.ListComments(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	views := make([]commentView, 0, len(comments))
	for i := range comments {
		views = append(views, newCommentView(&comments[i]))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *FeedHandler) ToggleCommentLike(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	liked, err := h.feeds.ToggleCommentLike(c.Param("commentId"), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}
