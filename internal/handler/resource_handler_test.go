package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
)

func setupResourceRouter(svc service.ResourceService, actor domain.Actor, maxUpload int64) *gin.Engine {
	r := gin.New()
	r.Use(withActor(actor))
	h := NewResourceHandler(svc, maxUpload)
	r.GET("/resources", h.ListChildren)
	r.POST("/resources/folders", h.CreateFolder)
	r.POST("/resources/files", h.UploadFile)
	r.GET("/resources/:id", h.GetItem)
	r.PATCH("/resources/:id", h.Rename)
	r.DELETE("/resources/:id", h.Delete)
	r.GET("/resources/:id/breadcrumb", h.Breadcrumb)
	r.GET("/resources/:id/download", h.DownloadURL)
	return r
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if field != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestResourceHandler_ListChildren(t *testing.T) {
	actor := domain.Actor{ID: "u1", Role: domain.RoleLearner}
	folderID := uuid.New()

	tests := []struct {
		name           string
		query          string
		wantParent     *uuid.UUID
		expectedStatus int
	}{
		{"root", "", nil, http.StatusOK},
		{"folder", "?parentId=" + folderID.String(), &folderID, http.StatusOK},
		{"bad id", "?parentId=nope", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var gotParent *uuid.UUID
			var gotActor domain.Actor
			svc := &MockResourceService{
				ListChildrenFunc: func(ctx context.Context, a domain.Actor, parentID *uuid.UUID) ([]dto.ResourceResponse, error) {
					called = true
					gotActor, gotParent = a, parentID
					return []dto.ResourceResponse{}, nil
				},
			}
			w := httptest.NewRecorder()
			setupResourceRouter(svc, actor, 1<<20).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resources"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.False(t, called)
				return
			}
			assert.Equal(t, actor, gotActor)
			assert.Equal(t, tt.wantParent, gotParent)
		})
	}
}

func TestResourceHandler_UploadFile(t *testing.T) {
	actor := domain.Actor{ID: "lead", Role: domain.RoleInstitutionalLead}
	folderID := uuid.New()
	var got *dto.FileUpload
	svc := &MockResourceService{
		UploadFileFunc: func(ctx context.Context, a domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error) {
			got = upload
			return &dto.ResourceResponse{ID: uuid.New(), Name: upload.FileName, Type: domain.ResourceFile}, nil
		},
	}
	body, contentType := multipartBody(t, "file", "abi-guide.pdf", "application/pdf", []byte("%PDF-1.7"), map[string]string{
		"parentId":    folderID.String(),
		"accessLevel": "learner",
	})

	req := httptest.NewRequest(http.MethodPost, "/resources/files", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	setupResourceRouter(svc, actor, 1<<20).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, "abi-guide.pdf", got.FileName)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, []byte("%PDF-1.7"), got.Data)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, folderID, *got.ParentID)
	assert.Equal(t, domain.AccessLearner, got.AccessLevel)
}

func TestResourceHandler_UploadFileRejects(t *testing.T) {
	actor := domain.Actor{ID: "lead", Role: domain.RoleInstitutionalLead}
	svc := &MockResourceService{
		UploadFileFunc: func(ctx context.Context, a domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartBody(t, "", "", "", nil, map[string]string{"accessLevel": "public"})
		req := httptest.NewRequest(http.MethodPost, "/resources/files", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		setupResourceRouter(svc, actor, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad parent id", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "a.txt", "text/plain", []byte("x"), map[string]string{"parentId": "root"})
		req := httptest.NewRequest(http.MethodPost, "/resources/files", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		setupResourceRouter(svc, actor, 1<<20).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResourceHandler_UploadFileOversized(t *testing.T) {
	svc := &MockResourceService{
		UploadFileFunc: func(ctx context.Context, a domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	const maxUpload = 1 << 10
	data := bytes.Repeat([]byte("x"), maxUpload+multipartOverhead+1)

	tests := []struct {
		name     string
		role     domain.Role
		wantCode int
		wantErr  string
	}{
		{"manager gets invalid argument", domain.RoleAdmin, http.StatusBadRequest, response.ErrCodeValidation},
		{"learner gets permission denied", domain.RoleLearner, http.StatusForbidden, response.ErrCodeForbidden},
		{"volunteer gets permission denied", domain.RoleVolunteer, http.StatusForbidden, response.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, "file", "big.bin", "application/octet-stream", data, nil)
			req := httptest.NewRequest(http.MethodPost, "/resources/files", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			setupResourceRouter(svc, domain.Actor{ID: "u", Role: tt.role}, maxUpload).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}
}

func TestResourceHandler_DeleteNonEmptyFolder(t *testing.T) {
	actor := domain.Actor{ID: "admin", Role: domain.RoleAdmin}
	svc := &MockResourceService{
		DeleteFunc: func(ctx context.Context, a domain.Actor, id uuid.UUID) error {
			return response.NewFailedPreconditionError("Folder is not empty. Please delete contents first.", "")
		},
	}
	w := httptest.NewRecorder()
	setupResourceRouter(svc, actor, 1<<20).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/resources/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Folder is not empty")
}

func TestResourceHandler_RenameAndBreadcrumb(t *testing.T) {
	actor := domain.Actor{ID: "admin", Role: domain.RoleAdmin}
	id := uuid.New()
	var gotName string
	svc := &MockResourceService{
		RenameFunc: func(ctx context.Context, a domain.Actor, itemID uuid.UUID, name string) (*dto.ResourceResponse, error) {
			gotName = name
			return &dto.ResourceResponse{ID: itemID, Name: name}, nil
		},
		BreadcrumbFunc: func(ctx context.Context, a domain.Actor, folderID uuid.UUID) ([]dto.BreadcrumbEntry, error) {
			assert.Equal(t, actor, a)
			return []dto.BreadcrumbEntry{{ID: uuid.New(), Name: "Training"}, {ID: folderID, Name: "Videos"}}, nil
		},
	}
	router := setupResourceRouter(svc, actor, 1<<20)

	req := httptest.NewRequest(http.MethodPatch, "/resources/"+id.String(), bytes.NewBufferString(`{"name":"Slides"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Slides", gotName)

	req = httptest.NewRequest(http.MethodPatch, "/resources/"+id.String(), bytes.NewBufferString(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resources/"+id.String()+"/breadcrumb", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Videos")
}

func TestResourceHandler_DownloadURLHiddenItem(t *testing.T) {
	actor := domain.Actor{ID: "u1", Role: domain.RoleVolunteer}
	svc := &MockResourceService{
		DownloadURLFunc: func(ctx context.Context, a domain.Actor, id uuid.UUID) (*dto.DownloadResponse, error) {
			return nil, response.NewNotFoundError("Resource not found", "")
		},
	}
	w := httptest.NewRecorder()
	setupResourceRouter(svc, actor, 1<<20).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resources/"+uuid.New().String()+"/download", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
