package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/photogallery-server/internal/mocks"
	"github.com/dtroode/photogallery-server/internal/model"
	"github.com/dtroode/photogallery-server/internal/testutil"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

func newTestPhoto(t *testing.T) (*Photo, *mocks.PhotoStore, *mocks.Storage) {
	t.Helper()
	photos := mocks.NewPhotoStore(t)
	storage := mocks.NewStorage(t)
	return NewPhoto(photos, storage, testutil.MakeNoopLogger()), photos, storage
}

func body(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}

func TestPhoto_List(t *testing.T) {
	ctx := context.Background()
	svc, photos, storage := newTestPhoto(t)

	views := []model.PhotoView{
		{Photo: model.Photo{ID: 1, ObjectKey: "k1", ContentType: "image/png"}},
		{Photo: model.Photo{ID: 2, ObjectKey: "k2", ContentType: "image/jpeg"}},
		{Photo: model.Photo{ID: 3, ObjectKey: "missing", ContentType: "image/png"}},
	}
	photos.On("List", mock.Anything, model.PhotoQuery{Limit: DefaultPageSize, Search: "sun"}).Return(views, 12, nil).Once()
	storage.On("Download", mock.Anything, "k1").Return(body([]byte("one")), nil).Once()
	storage.On("Download", mock.Anything, "k2").Return(body([]byte("two")), nil).Once()
	storage.On("Download", mock.Anything, "missing").Return(nil, model.ErrNotFound).Once()

	page, err := svc.List(ctx, model.PhotoQuery{Skip: -3, Search: "sun"})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Records, 3)
	assert.Equal(t, int64(1), page.Records[0].ID)
	assert.Equal(t, "data:image/png;base64,b25l", page.Records[0].Thumbnail)
	assert.Equal(t, "data:image/jpeg;base64,dHdv", page.Records[1].Thumbnail)
	assert.Empty(t, page.Records[2].Thumbnail)
}

func TestPhoto_ListCapsPageSize(t *testing.T) {
	svc, photos, _ := newTestPhoto(t)
	photos.On("List", mock.Anything, model.PhotoQuery{Limit: MaxPageSize}).Return(nil, 0, nil).Once()

	page, err := svc.List(context.Background(), model.PhotoQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
}

func TestPhoto_Get(t *testing.T) {
	ctx := context.Background()
	svc, photos, storage := newTestPhoto(t)

	photos.On("GetByID", mock.Anything, int64(7)).Return(model.PhotoView{
		Photo: model.Photo{ID: 7, ObjectKey: "k7", ContentType: "image/png"},
		Tags:  []string{"lake"},
	}, nil).Once()
	photos.On("GetByID", mock.Anything, int64(8)).Return(model.PhotoView{}, model.ErrNotFound).Once()
	storage.On("Download", mock.Anything, "k7").Return(body([]byte("img")), nil).Once()

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"lake"}, got.Tags)
	assert.Equal(t, "data:image/png;base64,aW1n", got.Thumbnail)

	_, err = svc.Get(ctx, 8)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPhoto_Upload(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("stores image and metadata", func(t *testing.T) {
		svc, photos, storage := newTestPhoto(t)
		storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(len(pngHeader)), "image/png").Return(nil).Once()
		photos.On("Create", mock.Anything, mock.MatchedBy(func(p model.Photo) bool {
			return p.OwnerID == owner && p.Title == "Lake" && p.ContentType == "image/png"
		}), []string{"nature", "lake"}).Return(model.Photo{ID: 42, OwnerID: owner}, nil).Once()

		photo, err := svc.Upload(ctx, model.UploadPhotoParams{
			OwnerID: owner,
			Title:   " Lake ",
			Tags:    []string{"nature", " lake", "Nature", ""},
			Data:    pngHeader,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), photo.ID)
	})

	t.Run("accepts jpeg", func(t *testing.T) {
		svc, photos, storage := newTestPhoto(t)
		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/jpeg").Return(nil).Once()
		photos.On("Create", mock.Anything, mock.Anything, []string{}).Return(model.Photo{ID: 1}, nil).Once()

		_, err := svc.Upload(ctx, model.UploadPhotoParams{OwnerID: owner, Title: "t", Data: jpegHeader})
		require.NoError(t, err)
	})

	t.Run("rejects other content", func(t *testing.T) {
		svc, _, _ := newTestPhoto(t)

		_, err := svc.Upload(ctx, model.UploadPhotoParams{OwnerID: owner, Title: "t", Data: []byte("GIF89a....")})
		require.ErrorIs(t, err, model.ErrInvalidPhoto)

		_, err = svc.Upload(ctx, model.UploadPhotoParams{OwnerID: owner, Title: "t"})
		require.ErrorIs(t, err, model.ErrInvalidPhoto)

		_, err = svc.Upload(ctx, model.UploadPhotoParams{OwnerID: owner, Data: pngHeader})
		require.ErrorIs(t, err, model.ErrInvalidPhoto)
	})

	t.Run("removes image when metadata fails", func(t *testing.T) {
		svc, photos, storage := newTestPhoto(t)
		var key string
		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").
			Run(func(args mock.Arguments) { key = args.String(1) }).
			Return(nil).Once()
		photos.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(model.Photo{}, assert.AnError).Once()
		storage.On("Delete", mock.Anything, mock.MatchedBy(func(k string) bool { return k == key })).Return(nil).Once()

		_, err := svc.Upload(ctx, model.UploadPhotoParams{OwnerID: owner, Title: "t", Data: pngHeader})
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestPhoto_Delete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	view := model.PhotoView{Photo: model.Photo{ID: 5, OwnerID: owner, ObjectKey: "k5"}}

	t.Run("owner", func(t *testing.T) {
		svc, photos, storage := newTestPhoto(t)
		photos.On("GetByID", mock.Anything, int64(5)).Return(view, nil).Once()
		photos.On("Delete", mock.Anything, int64(5)).Return(nil).Once()
		storage.On("Delete", mock.Anything, "k5").Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, 5, model.Claims{UserID: owner, Role: "User"}))
	})

	t.Run("admin", func(t *testing.T) {
		svc, photos, storage := newTestPhoto(t)
		photos.On("GetByID", mock.Anything, int64(5)).Return(view, nil).Once()
		photos.On("Delete", mock.Anything, int64(5)).Return(nil).Once()
		storage.On("Delete", mock.Anything, "k5").Return(assert.AnError).Once()

		require.NoError(t, svc.Delete(ctx, 5, model.Claims{UserID: uuid.New(), Role: "Admin"}))
	})

	t.Run("someone else", func(t *testing.T) {
		svc, photos, _ := newTestPhoto(t)
		photos.On("GetByID", mock.Anything, int64(5)).Return(view, nil).Once()

		err := svc.Delete(ctx, 5, model.Claims{UserID: uuid.New(), Role: "User"})
		require.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		svc, photos, _ := newTestPhoto(t)
		photos.On("GetByID", mock.Anything, int64(6)).Return(model.PhotoView{}, model.ErrNotFound).Once()

		err := svc.Delete(ctx, 6, model.Claims{UserID: owner})
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeTags(nil))
	assert.Equal(t, []string{"a", "B"}, NormalizeTags([]string{" a ", "B", "b", "", "A"}))
}
