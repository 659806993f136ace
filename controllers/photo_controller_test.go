package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealtracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPhotoStore struct {
	url string
	err error
}

func (s stubPhotoStore) Upload(context.Context, string) (string, error) { return s.url, s.err }

func TestPhotoUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		store    stubPhotoStore
		body     string
		wantCode int
	}{
		{"uploaded", stubPhotoStore{url: "https://cdn/x.jpg"}, `{"photoData":"data:image/jpeg;base64,aGk="}`, http.StatusOK},
		{"missing field", stubPhotoStore{}, `{}`, http.StatusBadRequest},
		{"not a data uri", stubPhotoStore{err: utils.ErrNotDataURI}, `{"photoData":"https://x"}`, http.StatusBadRequest},
		{"storage failure", stubPhotoStore{err: errors.New("denied")}, `{"photoData":"data:image/jpeg;base64,aGk="}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/photos", NewPhotoController(tt.store, log).Upload)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/photos", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"url":"https://cdn/x.jpg"}`, rec.Body.String())
			}
		})
	}
}
