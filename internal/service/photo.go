package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
)

const (
	// DefaultPageSize is used when a listing does not ask for a page size.
	DefaultPageSize = 10
	// MaxPageSize caps the page size of a listing.
	MaxPageSize = 100
	// MaxImageSize is the largest accepted upload, in bytes.
	MaxImageSize = 10 << 20

	thumbnailWorkers = 4
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo manages photo metadata in PhotoStore and image bytes in Storage.
type Photo struct {
	photos  model.PhotoStore
	storage model.Storage
	logger  *logger.Logger
}

func NewPhoto(photos model.PhotoStore, storage model.Storage, logger *logger.Logger) *Photo {
	return &Photo{
		photos:  photos,
		storage: storage,
		logger:  logger,
	}
}

// List returns a page of photos with their images inlined as data URIs.
// Images that cannot be read are left empty rather than failing the page.
func (p *Photo) List(ctx context.Context, query model.PhotoQuery) (model.PhotoPage, error) {
	if query.Skip < 0 {
		query.Skip = 0
	}
	if query.Limit <= 0 {
		query.Limit = DefaultPageSize
	}
	if query.Limit > MaxPageSize {
		query.Limit = MaxPageSize
	}

	views, total, err := p.photos.List(ctx, query)
	if err != nil {
		p.logger.Error("Photo service: failed to list photos",
			"error", err.Error())
		return model.PhotoPage{}, fmt.Errorf("failed to list photos: %w", err)
	}

	records := make([]model.PhotoWithImage, len(views))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(thumbnailWorkers)
	for i, view := range views {
		g.Go(func() error {
			records[i] = model.PhotoWithImage{PhotoView: view}
			uri, err := p.dataURI(gctx, view.Photo)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				p.logger.Warn("Photo service: failed to read image",
					"photo_id", view.ID,
					"object_key", view.ObjectKey,
					"error", err.Error())
				return nil
			}
			records[i].Thumbnail = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PhotoPage{}, fmt.Errorf("failed to read images: %w", err)
	}

	return model.PhotoPage{Records: records, Total: total}, nil
}

func (p *Photo) Tags(ctx context.Context) ([]model.Tag, error) {
	tags, err := p.photos.ListTags(ctx)
	if err != nil {
		p.logger.Error("Photo service: failed to list tags",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Get returns one photo with its image inlined.
func (p *Photo) Get(ctx context.Context, id int64) (model.PhotoWithImage, error) {
	view, err := p.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PhotoWithImage{}, err
		}
		p.logger.Error("Photo service: failed to get photo",
			"photo_id", id,
			"error", err.Error())
		return model.PhotoWithImage{}, fmt.Errorf("failed to get photo: %w", err)
	}

	uri, err := p.dataURI(ctx, view.Photo)
	if err != nil {
		p.logger.Error("Photo service: failed to read image",
			"photo_id", id,
			"error", err.Error())
		return model.PhotoWithImage{}, fmt.Errorf("failed to read image: %w", err)
	}

	return model.PhotoWithImage{PhotoView: view, Thumbnail: uri}, nil
}

// Upload stores the image and its metadata. Only JPEG and PNG images are
// accepted; the type is detected from the content, not from the client.
func (p *Photo) Upload(ctx context.Context, params model.UploadPhotoParams) (model.Photo, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return model.Photo{}, fmt.Errorf("%w: title is required", model.ErrInvalidPhoto)
	}
	if len(params.Data) == 0 {
		return model.Photo{}, fmt.Errorf("%w: image is empty", model.ErrInvalidPhoto)
	}
	if len(params.Data) > MaxImageSize {
		return model.Photo{}, fmt.Errorf("%w: image exceeds %d bytes", model.ErrInvalidPhoto, MaxImageSize)
	}

	contentType := http.DetectContentType(params.Data)
	if !allowedImageTypes[contentType] {
		return model.Photo{}, fmt.Errorf("%w: unsupported content type %s", model.ErrInvalidPhoto, contentType)
	}

	objectKey := fmt.Sprintf("photos/%s/%s", params.OwnerID, uuid.NewString())
	err := p.storage.Upload(ctx, objectKey, bytes.NewReader(params.Data), int64(len(params.Data)), contentType)
	if err != nil {
		p.logger.Error("Photo service: failed to upload image",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.Photo{}, fmt.Errorf("failed to upload image: %w", err)
	}

	photo, err := p.photos.Create(ctx, model.Photo{
		OwnerID:     params.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Location:    strings.TrimSpace(params.Location),
		ObjectKey:   objectKey,
		ContentType: contentType,
		UploadedAt:  time.Now(),
	}, NormalizeTags(params.Tags))
	if err != nil {
		p.logger.Error("Photo service: failed to create photo",
			"owner_id", params.OwnerID,
			"error", err.Error())
		if delErr := p.storage.Delete(ctx, objectKey); delErr != nil {
			p.logger.Warn("Photo service: failed to remove orphaned image",
				"object_key", objectKey,
				"error", delErr.Error())
		}
		return model.Photo{}, fmt.Errorf("failed to create photo: %w", err)
	}

	p.logger.Info("Photo service: photo uploaded",
		"photo_id", photo.ID,
		"owner_id", photo.OwnerID)

	return photo, nil
}

// Delete removes a photo. Only its owner or an admin may do so.
func (p *Photo) Delete(ctx context.Context, id int64, requester model.Claims) error {
	view, err := p.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}

	if view.OwnerID != requester.UserID && !strings.EqualFold(requester.Role, model.RoleAdmin) {
		p.logger.Info("Photo service: delete forbidden",
			"photo_id", id,
			"user_id", requester.UserID)
		return model.ErrForbidden
	}

	if err := p.photos.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		p.logger.Error("Photo service: failed to delete photo",
			"photo_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if err := p.storage.Delete(ctx, view.ObjectKey); err != nil {
		p.logger.Warn("Photo service: failed to delete image",
			"object_key", view.ObjectKey,
			"error", err.Error())
	}

	p.logger.Info("Photo service: photo deleted",
		"photo_id", id,
		"user_id", requester.UserID)

	return nil
}

// NormalizeTags trims tag names and drops empty and duplicate ones,
// comparing case-insensitively.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

func (p *Photo) dataURI(ctx context.Context, photo model.Photo) (string, error) {
	rc, err := p.storage.Download(ctx, photo.ObjectKey)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxImageSize+1))
	if err != nil {
		return "", err
	}

	return "data:" + photo.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
