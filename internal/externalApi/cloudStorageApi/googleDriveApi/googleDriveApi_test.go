package googleDriveApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_dashboard_bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestDeleteOldFiles(t *testing.T) {
	var mu sync.Mutex
	var deletedIDs []string
	var query string
	trashEmptied := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
			query = r.URL.Query().Get("q")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"files":[{"id":"old-1"},{"id":"old-2"}]}`))
		case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/files/trash"):
			trashEmptied = true
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/files/old-1"):
			deletedIDs = append(deletedIDs, "old-1")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.GoogleDrive.FileTTL = 24 * time.Hour

	api, err := NewWithOptions(context.Background(), cfg, option.WithEndpoint(server.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	deleted, err := api.DeleteOldFiles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{"old-1"}, deletedIDs)
	assert.True(t, trashEmptied)
	assert.Contains(t, query, "createdTime < '")
	assert.Contains(t, query, "trashed = false")
}
