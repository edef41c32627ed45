package services

import (
	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/internal/security"
	"github.com/waylo/waylo-api/pkg/errors"
)

type AlbumService struct {
	albumRepo  *repositories.AlbumRepository
	widgetRepo *repositories.WidgetRepository
}

func NewAlbumService(albumRepo *repositories.AlbumRepository, widgetRepo *repositories.WidgetRepository) *AlbumService {
	return &AlbumService{
		albumRepo:  albumRepo,
		widgetRepo: widgetRepo,
	}
}

// GetAlbum returns a user's album
func (s *AlbumService) GetAlbum(userID string) (*models.Album, error) {
	return s.albumRepo.GetByUserID(userID)
}

type AlbumUpdate struct {
	BackgroundColor   *string
	BackgroundPattern *string
}

// UpdateAlbum applies background changes to the actor's own album.
func (s *AlbumService) UpdateAlbum(userID, actorID string, update AlbumUpdate) (*models.Album, error) {
	if userID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "cannot update another user's album")
	}

	album, err := s.albumRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if update.BackgroundColor != nil {
		album.BackgroundColor = security.SanitizeString(*update.BackgroundColor)
	}
	if update.BackgroundPattern != nil {
		album.BackgroundPattern = security.SanitizeString(*update.BackgroundPattern)
	}

	if err := s.albumRepo.UpdateAlbum(album); err != nil {
		return nil, err
	}

	return album, nil
}

// ListWidgets returns all widgets on the user's album
func (s *AlbumService) ListWidgets(userID string) ([]models.Widget, error) {
	album, err := s.albumRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.widgetRepo.ListByAlbum(album.ID)
}

type WidgetInput struct {
	Type      string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	ExtraData string
}

// CreateWidget adds a widget to the actor's own album.
func (s *AlbumService) CreateWidget(userID, actorID string, input WidgetInput) (*models.Widget, error) {
	if userID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "cannot modify another user's album")
	}

	album, err := s.albumRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if input.Type == "" {
		return nil, errors.New(errors.ErrCodeValidation, "widget type is required")
	}

	widget := &models.Widget{
		AlbumID:   album.ID,
		Type:      input.Type,
		X:         input.X,
		Y:         input.Y,
		Width:     input.Width,
		Height:    input.Height,
		ExtraData: input.ExtraData,
	}

	if err := s.widgetRepo.CreateWidget(widget); err != nil {
		return nil, err
	}

	return widget, nil
}

type WidgetUpdate struct {
	Type      *string
	X         *float64
	Y         *float64
	Width     *float64
	Height    *float64
	ExtraData *string
}

// UpdateWidget applies partial changes to a widget on the actor's album.
func (s *AlbumService) UpdateWidget(userID, actorID, widgetID string, update WidgetUpdate) (*models.Widget, error) {
	if userID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "cannot modify another user's album")
	}

	album, err := s.albumRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	widget, err := s.widgetRepo.GetByID(album.ID, widgetID)
	if err != nil {
		return nil, err
	}

	if update.Type != nil {
		widget.Type = *update.Type
	}
	if update.X != nil {
		widget.X = *update.X
	}
	if update.Y != nil {
		widget.Y = *update.Y
	}
	if update.Width != nil {
		widget.Width = *update.Width
	}
	if update.Height != nil {
		widget.Height = *update.Height
	}
	if update.ExtraData != nil {
		widget.ExtraData = *update.ExtraData
	}

	if err := s.widgetRepo.UpdateWidget(widget); err != nil {
		return nil, err
	}

	return widget, nil
}

// DeleteWidget removes a widget from the actor's album.
func (s *AlbumService) DeleteWidget(userID, actorID, widgetID string) error {
	if userID != actorID {
		return errors.New(errors.ErrCodeForbidden, "cannot modify another user's album")
	}

	album, err := s.albumRepo.GetByUserID(userID)
	if err != nil {
		return err
	}

	return s.widgetRepo.DeleteWidget(album.ID, widgetID)
}
