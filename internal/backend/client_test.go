package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logidocs/internal/entity"
	"logidocs/internal/reconcile"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1", 5*time.Second, nil)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(entity.HealthStatus{Status: "ok", Database: "connected"})
	})

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connected", status.Database)
}

func TestExtract(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/extract", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "doc.pdf", header.Filename)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4 fake", string(body))

		_ = json.NewEncoder(w).Encode(entity.ExtractionResult{
			DocumentHash: strings.Repeat("ab", 32),
			IsValid:      true,
			StructuredFields: reconcile.FieldMap{
				"shipper_name": "Acme",
				"weight":       nil,
			},
		})
	})

	result, err := client.Extract(context.Background(), "doc.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, "Acme", result.StructuredFields["shipper_name"])
}

func TestExtractRejectsMalformedFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"document_hash": "` + strings.Repeat("ab", 32) + `",
			"is_valid": true,
			"structured_fields": {"weight": 10.5}
		}`))
	})

	_, err := client.Extract(context.Background(), "doc.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestExtractInvalidDocumentPassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entity.ExtractionResult{
			IsValid:           false,
			ValidationMessage: "not a logistics document",
		})
	})

	result, err := client.Extract(context.Background(), "doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "not a logistics document", result.ValidationMessage)
}

func TestSaveConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail": "document already exists"}`))
	})

	_, err := client.Save(context.Background(), entity.SaveRequest{DocumentHash: "x", Filename: "doc.pdf"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "document already exists", be.Detail)
	assert.Equal(t, http.StatusConflict, be.Status)
}

func TestSaveSendsReviewedFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/save", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req entity.SaveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doc.pdf", req.Filename)
		assert.Equal(t, "10kg", req.StructuredFields["weight"])

		_ = json.NewEncoder(w).Encode(entity.SaveResponse{DocumentID: 42})
	})

	resp, err := client.Save(context.Background(), entity.SaveRequest{
		DocumentHash:     strings.Repeat("ab", 32),
		Filename:         "doc.pdf",
		StructuredFields: reconcile.FieldMap{"weight": "10kg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.DocumentID)
}

func TestLogModelQuality(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/model-log", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	q, err := reconcile.BuildQualityLog(
		reconcile.FieldMap{"weight": nil},
		reconcile.FieldMap{"weight": "10kg"},
	)
	require.NoError(t, err)

	err = client.LogModelQuality(context.Background(), entity.ModelLogEntry{
		QualityLog:   q,
		DocumentHash: strings.Repeat("ab", 32),
	})
	require.NoError(t, err)

	assert.Equal(t, false, got["success"])
	assert.Contains(t, got, "corrections_made")
	assert.Equal(t, "Manual corrections made to 1 field(s): weight", got["failure_reason"])
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusTooManyRequests, KindTransient},
		{http.StatusBadGateway, KindTransient},
		{http.StatusServiceUnavailable, KindTransient},
		{http.StatusInternalServerError, KindInternal},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := client.ListDocuments(context.Background())
		require.Error(t, err)

		var be *Error
		require.ErrorAs(t, err, &be)
		assert.Equal(t, tt.kind, be.Kind, "status %d", tt.status)
	}
}

func TestNetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close() // connection refused from here on

	client := New(base, time.Second, nil)
	_, err := client.ListDocuments(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestListAndDeleteDocuments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/documents":
			carrier := "DHL"
			_ = json.NewEncoder(w).Encode(entity.DocumentList{
				Total: 1,
				Documents: []*entity.Document{
					{ID: 5, Filename: "doc.pdf", Carrier: &carrier},
				},
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/documents/5":
			_, _ = w.Write([]byte(`{"deleted": true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	list, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "doc.pdf", list.Documents[0].Filename)

	require.NoError(t, client.DeleteDocument(context.Background(), 5))

	err = client.DeleteDocument(context.Background(), 6)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
