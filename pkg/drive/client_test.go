package drive_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inventorypro/inventory-platform/pkg/drive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	driveV3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// listPage is one canned response for the files.list endpoint. The server
// below replays pages in order, recording the page token and query of every
// request so tests can assert how the client walked them.
type listPage struct {
	files     []*driveV3.File
	nextToken string
}

type fakeDriveServer struct {
	server *httptest.Server

	pages      []listPage
	pageTokens []string
	queries    []string
}

func newFakeDriveServer(t *testing.T, pages []listPage) *fakeDriveServer {
	t.Helper()

	fake := &fakeDriveServer{pages: pages}

	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		fake.pageTokens = append(fake.pageTokens, r.URL.Query().Get("pageToken"))
		fake.queries = append(fake.queries, r.URL.Query().Get("q"))

		page := len(fake.pageTokens) - 1
		if page >= len(fake.pages) {
			http.Error(w, `{"error": {"message": "no more pages"}}`, http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(&driveV3.FileList{
			Files:         fake.pages[page].files,
			NextPageToken: fake.pages[page].nextToken,
		})
		require.NoError(t, err)
	})

	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)

	return fake
}

func (f *fakeDriveServer) client(t *testing.T) drive.Client {
	t.Helper()

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "ya29.valid"})

	client, err := drive.NewClient(t.Context(), ts, option.WithEndpoint(f.server.URL+"/"))
	require.NoError(t, err)

	return client
}

func TestFindFolder(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Lookup Follows The Page Token", func(t *testing.T) {
		// Arrange
		fake := newFakeDriveServer(t, []listPage{
			{files: nil, nextToken: "page-2"},
			{files: []*driveV3.File{{Id: "folder-1", Name: "InventoryProBackup"}}},
		})
		client := fake.client(t)

		// Act
		folderID, err := client.FindFolder(ctx, "InventoryProBackup")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "folder-1", folderID)
		require.Len(t, fake.pageTokens, 2)
		assert.Equal(t, "", fake.pageTokens[0])
		assert.Equal(t, "page-2", fake.pageTokens[1])
	})

	t.Run("Success - Absent Only After Every Page", func(t *testing.T) {
		// Arrange
		fake := newFakeDriveServer(t, []listPage{
			{files: nil, nextToken: "page-2"},
			{files: nil, nextToken: "page-3"},
			{files: nil},
		})
		client := fake.client(t)

		// Act
		folderID, err := client.FindFolder(ctx, "InventoryProBackup")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "", folderID)
		assert.Equal(t, []string{"", "page-2", "page-3"}, fake.pageTokens)
	})

	t.Run("Success - First Match Stops The Walk", func(t *testing.T) {
		// Arrange
		fake := newFakeDriveServer(t, []listPage{
			{files: []*driveV3.File{{Id: "folder-1"}, {Id: "folder-2"}}, nextToken: "page-2"},
			{files: []*driveV3.File{{Id: "folder-3"}}},
		})
		client := fake.client(t)

		// Act
		folderID, err := client.FindFolder(ctx, "InventoryProBackup")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "folder-1", folderID)
		assert.Len(t, fake.pageTokens, 1)
	})

	t.Run("Failure - Listing Error Surfaces", func(t *testing.T) {
		// Arrange
		fake := newFakeDriveServer(t, nil)
		client := fake.client(t)

		// Act
		folderID, err := client.FindFolder(ctx, "InventoryProBackup")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list remote objects")
		assert.Equal(t, "", folderID)
	})
}

func TestFindFileInFolder(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Name Scoped To Parent", func(t *testing.T) {
		// Arrange
		fake := newFakeDriveServer(t, []listPage{
			{files: []*driveV3.File{{Id: "file-1", Name: "inventory_backup.json"}}},
		})
		client := fake.client(t)

		// Act
		fileID, err := client.FindFileInFolder(ctx, "inventory_backup.json", "folder-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "file-1", fileID)
		require.Len(t, fake.queries, 1)
		assert.Contains(t, fake.queries[0], "name='inventory_backup.json'")
		assert.Contains(t, fake.queries[0], "'folder-1' in parents")
	})

	t.Run("Success - Quotes And Backslashes Escaped In The Query", func(t *testing.T) {
		// Arrange
		fake := newFakeDriveServer(t, []listPage{{files: nil}})
		client := fake.client(t)

		// Act
		_, err := client.FindFileInFolder(ctx, `it's a \ backup`, "folder-1")

		// Assert
		require.NoError(t, err)
		require.Len(t, fake.queries, 1)
		assert.Contains(t, fake.queries[0], `name='it\'s a \\ backup'`)
	})
}
