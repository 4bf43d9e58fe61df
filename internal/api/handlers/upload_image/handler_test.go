package upload_image

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/service/gallery"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
)

type fakeGallery struct {
	got     *gallery.UploadRequest
	content []byte
	err     error
}

func (f *fakeGallery) Upload(_ context.Context, req *gallery.UploadRequest) (*gallery.ImageResponse, error) {
	f.got = req
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, err
	}
	f.content = data
	if f.err != nil {
		return nil, f.err
	}
	return &gallery.ImageResponse{ID: 9, SizeBytes: int64(len(data))}, nil
}

func newRequest(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile(formField, "nails.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/gallery", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r.WithContext(middleware.WithUser(r.Context(), 1, domain.RoleAdmin))
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeGallery{}
	h := NewHandler(svc, logger.NewNop(), 1<<20)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(t, map[string]string{"caption": " French ", "serviceId": "3"}, []byte("png-bytes")))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(1), svc.got.ActorID)
	require.NotNil(t, svc.got.Caption)
	assert.Equal(t, "French", *svc.got.Caption)
	require.NotNil(t, svc.got.ServiceID)
	assert.Equal(t, int64(3), *svc.got.ServiceID)
	assert.Equal(t, []byte("png-bytes"), svc.content)
}

func TestHandle_Errors(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
		file   []byte
		err    error
		status int
	}{
		{"missing file", map[string]string{"caption": "x"}, nil, nil, http.StatusBadRequest},
		{"bad service id", map[string]string{"serviceId": "abc"}, []byte("x"), nil, http.StatusBadRequest},
		{"unsupported type", nil, []byte("gif"), gallery.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{"too large", nil, []byte("big"), gallery.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid caption", nil, []byte("x"), gallery.ErrInvalidInput, http.StatusBadRequest},
		{"internal", nil, []byte("x"), gallery.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeGallery{err: tc.err}, logger.NewNop(), 1<<20)
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(t, tc.fields, tc.file))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHandle_NotMultipart(t *testing.T) {
	h := NewHandler(&fakeGallery{}, logger.NewNop(), 1<<20)
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/gallery", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
