package gallery

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/files"
	galleryRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/gallery"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, img *domain.GalleryImage) (*domain.GalleryImage, error) {
	args := m.Called(ctx, img)
	out := *img
	out.ID = 50
	return &out, args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	args := m.Called(ctx, id)
	img, _ := args.Get(0).(*domain.GalleryImage)
	return img, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, serviceID *int64) ([]*domain.GalleryImage, error) {
	args := m.Called(ctx, serviceID)
	img, _ := args.Get(0).([]*domain.GalleryImage)
	return img, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, int64, string, string, *int64, interface{}) {}

// pngBytes минимальный PNG заголовок, которого достаточно для определения типа
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func setup(t *testing.T, maxBytes int64) (*Service, *mockRepo, *files.Store) {
	t.Helper()
	store, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	repo := &mockRepo{}
	return NewService(repo, store, maxBytes, "/uploads", nopAudit{}, logger.NewNop()), repo, store
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUpload_StoresPNG(t *testing.T) {
	svc, repo, store := setup(t, 1024)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(img *domain.GalleryImage) bool {
		return img.ContentType == "image/png" && strings.HasSuffix(img.FileName, ".png") &&
			img.SizeBytes == int64(len(pngBytes)) && *img.Caption == "French tips"
	})).Return(nil)

	resp, err := svc.Upload(context.Background(), &UploadRequest{
		ActorID: 1, Caption: ptr.Ptr("<b>French tips</b>"), Content: bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.ID)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))

	names := dirEntries(t, store.Dir())
	require.Len(t, names, 1)
	assert.Equal(t, filepath.Base(resp.URL), names[0])
}

func TestUpload_Rejections(t *testing.T) {
	svc, repo, store := setup(t, 32)

	_, err := svc.Upload(context.Background(), &UploadRequest{ActorID: 1, Content: strings.NewReader("plain text, not an image")})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(context.Background(), &UploadRequest{ActorID: 1, Content: bytes.NewReader(pngBytes)})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = svc.Upload(context.Background(), &UploadRequest{ActorID: 1, Content: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, dirEntries(t, store.Dir()))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpload_RepositoryFailureRemovesFile(t *testing.T) {
	svc, repo, store := setup(t, 1024)
	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := svc.Upload(context.Background(), &UploadRequest{ActorID: 1, Content: bytes.NewReader(pngBytes)})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, dirEntries(t, store.Dir()))
}

func TestDelete_RemovesFile(t *testing.T) {
	svc, repo, store := setup(t, 1024)
	_, err := store.Save("abc.png", bytes.NewReader(pngBytes), 1024)
	require.NoError(t, err)
	repo.On("GetByID", mock.Anything, int64(50)).Return(&domain.GalleryImage{ID: 50, FileName: "abc.png"}, nil)
	repo.On("Delete", mock.Anything, int64(50)).Return(nil)
	repo.On("GetByID", mock.Anything, int64(51)).Return(nil, galleryRepo.ErrImageNotFound)

	require.NoError(t, svc.Delete(context.Background(), 50, 1))
	assert.Empty(t, dirEntries(t, store.Dir()))

	assert.ErrorIs(t, svc.Delete(context.Background(), 51, 1), ErrImageNotFound)
}
