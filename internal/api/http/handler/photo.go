package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/photogallery-server/internal/api/http/response"
	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
	"github.com/dtroode/photogallery-server/internal/service"
)

// PhotoService defines the photo gallery operations.
type PhotoService interface {
	List(ctx context.Context, query model.PhotoQuery) (model.PhotoPage, error)
	Tags(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id int64) (model.PhotoWithImage, error)
	Upload(ctx context.Context, params model.UploadPhotoParams) (model.Photo, error)
	Delete(ctx context.Context, id int64, requester model.Claims) error
}

// Photo handles the /api/photos endpoints. Every route requires
// authentication.
type Photo struct {
	photoService   PhotoService
	contextManager ContextManager
	logger         *logger.Logger
}

func NewPhoto(photoService PhotoService, contextManager ContextManager, logger *logger.Logger) *Photo {
	return &Photo{
		photoService:   photoService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List returns a page of photos. Query parameters: skipRows, pageSize, q,
// sortField (title, ownername, anything else sorts by upload date) and
// order (1 ascending, anything else descending).
func (h *Photo) List(c *fiber.Ctx) error {
	query := model.PhotoQuery{
		Skip:      c.QueryInt("skipRows", 0),
		Limit:     c.QueryInt("pageSize", service.DefaultPageSize),
		Search:    c.Query("q"),
		SortField: model.PhotoSortField(strings.ToLower(c.Query("sortField"))),
		Ascending: c.QueryInt("order", -1) == 1,
	}

	page, err := h.photoService.List(c.UserContext(), query)
	if err != nil {
		return handleError(c, err)
	}

	records := make([]photoResponse, 0, len(page.Records))
	for _, p := range page.Records {
		records = append(records, newPhotoResponse(p))
	}

	return response.OK(c, response.MsgPhotosListed, photoListResponse{
		Records:      records,
		RecordsTotal: page.Total,
	})
}

func (h *Photo) Tags(c *fiber.Ctx) error {
	tags, err := h.photoService.Tags(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagResponse{ID: t.ID, Name: t.Name})
	}

	return response.OK(c, response.MsgTagsListed, out)
}

func (h *Photo) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgBadRequest)
	}

	photo, err := h.photoService.Get(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return response.Fail(c, fiber.StatusNotFound, response.MsgPhotoNotFound)
		}
		return handleError(c, err)
	}

	return response.OK(c, response.MsgPhotoFound, newPhotoResponse(photo))
}

// Upload accepts a multipart form with file, title, description, location
// and comma-separated tags.
func (h *Photo) Upload(c *fiber.Ctx) error {
	claims, ok := h.contextManager.GetClaims(c)
	if !ok {
		return response.Fail(c, fiber.StatusUnauthorized, response.MsgUnauthorized)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgInvalidPhoto)
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Photo handler: failed to open upload",
			"error", err.Error())
		return response.Fail(c, fiber.StatusBadRequest, response.MsgInvalidPhoto)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		h.logger.Error("Photo handler: failed to read upload",
			"error", err.Error())
		return response.Fail(c, fiber.StatusBadRequest, response.MsgInvalidPhoto)
	}

	photo, err := h.photoService.Upload(c.UserContext(), model.UploadPhotoParams{
		OwnerID:     claims.UserID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		Tags:        strings.Split(c.FormValue("tags"), ","),
		Data:        data,
	})
	if err != nil {
		return handleError(c, err)
	}

	return response.OK(c, response.MsgPhotoUploaded, photo.ID)
}

// Delete removes a photo owned by the caller. Admins may delete any photo.
func (h *Photo) Delete(c *fiber.Ctx) error {
	claims, ok := h.contextManager.GetClaims(c)
	if !ok {
		return response.Fail(c, fiber.StatusUnauthorized, response.MsgUnauthorized)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, response.MsgBadRequest)
	}

	if err := h.photoService.Delete(c.UserContext(), int64(id), claims); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return response.Fail(c, fiber.StatusNotFound, response.MsgPhotoNotFound)
		}
		return handleError(c, err)
	}

	return response.Empty(c, response.MsgPhotoDeleted)
}
