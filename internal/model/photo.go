package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PhotoStore defines persistence operations for photo metadata.
type PhotoStore interface {
	Create(ctx context.Context, photo Photo, tags []string) (Photo, error)
	GetByID(ctx context.Context, id int64) (PhotoView, error)
	List(ctx context.Context, query PhotoQuery) ([]PhotoView, int, error)
	Delete(ctx context.Context, id int64) error
	ListTags(ctx context.Context) ([]Tag, error)
}

// Photo is a stored photo. The image bytes live in object storage under ObjectKey.
type Photo struct {
	ID          int64
	OwnerID     uuid.UUID
	Title       string
	Description string
	Location    string
	ObjectKey   string
	ContentType string
	UploadedAt  time.Time
}

// PhotoView is a photo joined with its owner's name and tags.
type PhotoView struct {
	Photo
	OwnerName string
	Tags      []string
}

// PhotoSortField enumerates sortable listing columns.
type PhotoSortField string

const (
	// PhotoSortUploadedAt sorts by upload time.
	PhotoSortUploadedAt PhotoSortField = "uploadeddate"
	// PhotoSortTitle sorts by title.
	PhotoSortTitle PhotoSortField = "title"
	// PhotoSortOwnerName sorts by the owner's user name.
	PhotoSortOwnerName PhotoSortField = "ownername"
)

// PhotoQuery describes a page of the photo listing.
type PhotoQuery struct {
	Skip      int
	Limit     int
	Search    string
	SortField PhotoSortField
	Ascending bool
}

// PhotoWithImage is a photo view with its image encoded as a data URI.
type PhotoWithImage struct {
	PhotoView
	Thumbnail string
}

// PhotoPage is one page of the listing plus the total number of matches.
type PhotoPage struct {
	Records []PhotoWithImage
	Total   int
}

// Tag is a photo label.
type Tag struct {
	ID   int
	Name string
}

// UploadPhotoParams contains parameters to upload a photo.
type UploadPhotoParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Location    string
	Tags        []string
	Data        []byte
}
