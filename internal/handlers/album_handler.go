package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/services"
)

type AlbumHandler struct {
	albums *services.AlbumService
}

func NewAlbumHandler(albums *services.AlbumService) *AlbumHandler {
	return &AlbumHandler{albums: albums}
}

type albumView struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	BackgroundColor   string `json:"background_color"`
	BackgroundPattern string `json:"background_pattern"`
}

func newAlbumView(a *models.Album) albumView {
	return albumView{
		ID:                a.ID,
		UserID:            a.UserID,
		BackgroundColor:   a.BackgroundColor,
		BackgroundPattern: a.BackgroundPattern,
	}
}

func (h *AlbumHandler) GetAlbum(c echo.Context) error {
	album, err := h.albums.GetAlbum(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newAlbumView(album))
}

type updateAlbumRequest struct {
	BackgroundColor   *string `json:"background_color"`
	BackgroundPattern *string `json:"background_pattern"`
}

func (h *AlbumHandler) UpdateAlbum(c echo.Context) error {
	var req updateAlbumRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	album, err := h.albums.UpdateAlbum(c.Param("id"), actor.ID, services.AlbumUpdate{
		BackgroundColor:   req.BackgroundColor,
		BackgroundPattern: req.BackgroundPattern,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newAlbumView(album))
}

type widgetView struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ExtraData string  `json:"extra_data"`
}

func newWidgetView(w *models.Widget) widgetView {
	return widgetView{
		ID:        w.ID,
		Type:      w.Type,
		X:         w.X,
		Y:         w.Y,
		Width:     w.Width,
		Height:    w.Height,
		ExtraData: w.ExtraData,
	}
}

func (h *AlbumHandler) ListWidgets(c echo.Context) error {
	widgets, err := h.albums.ListWidgets(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	views := make([]widgetView, 0, len(widgets))
	for i := range widgets {
		views = append(views, newWidgetView(&widgets[i]))
	}
	return c.JSON(http.StatusOK, views)
}

type widgetRequest struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ExtraData string  `json:"extra_data"`
}

func (h *AlbumHandler) CreateWidget(c echo.Context) error {
	var req widgetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	widget, err := h.albums.CreateWidget(c.Param("id"), actor.ID, services.WidgetInput{
		Type:      req.Type,
		X:         req.X,
		Y:         req.Y,
		Width:     req.Width,
		Height:    req.Height,
		ExtraData: req.ExtraData,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newWidgetView(widget))
}

type widgetUpdateRequest struct {
	Type      *string  `json:"type"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	ExtraData *string  `json:"extra_data"`
}

func (h *AlbumHandler) UpdateWidget(c echo.Context) error {
	var req widgetUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.CurrentUser(c)
	widget, err := h.albums.UpdateWidget(c.Param("id"), actor.ID, c.Param("widgetId"), services.WidgetUpdate{
		Type:      req.Type,
		X:         req.X,
		Y:         req.Y,
		Width:     req.Width,
		Height:    req.Height,
		ExtraData: req.ExtraData,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newWidgetView(widget))
}

func (h *AlbumHandler) DeleteWidget(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := h.albums.DeleteWidget(c.Param("id"), actor.ID, c.Param("widgetId")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
