// Package drive implements the remote object store protocol used for cloud
// backups. Everything is addressed by logical name, never by stored id, so
// each primitive is idempotent: a lookup pages through every result page
// before concluding "not found", and uploads replace in place when the target
// already exists.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	backupMimeType = "application/json"
)

// Client is the narrow surface the backup orchestrator talks to. All "find"
// calls return an empty id when nothing matches; absence is an outcome, not
// an error.
type Client interface {
	FindFolder(ctx context.Context, name string) (string, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	FindOrCreateFolder(ctx context.Context, name string) (string, error)
	FindFileInFolder(ctx context.Context, name, folderID string) (string, error)
	UploadContent(ctx context.Context, name string, content []byte, folderID string) (string, error)
	ReplaceContent(ctx context.Context, fileID string, content []byte) error
	DownloadContent(ctx context.Context, fileID string) ([]byte, error)
}

type driveClient struct {
	service *drive.Service
}

// NewClient builds a Drive v3 client from a token source. Extra options are
// mainly for tests (custom endpoint, custom HTTP client).
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (Client, error) {

	allOpts := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)

	service, err := drive.NewService(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &driveClient{service: service}, nil
}

func (c *driveClient) FindFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false", folderMimeType, escapeName(name))

	return c.findFirst(ctx, query)
}

func (c *driveClient) CreateFolder(ctx context.Context, name string) (string, error) {

	folder, err := c.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder '%s': %w", name, err)
	}

	return folder.Id, nil
}

func (c *driveClient) FindOrCreateFolder(ctx context.Context, name string) (string, error) {

	folderID, err := c.FindFolder(ctx, name)
	if err != nil {
		return "", err
	}

	if folderID != "" {
		return folderID, nil
	}

	return c.CreateFolder(ctx, name)
}

func (c *driveClient) FindFileInFolder(ctx context.Context, name, folderID string) (string, error) {
	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", escapeName(name), folderID)

	return c.findFirst(ctx, query)
}

func (c *driveClient) UploadContent(ctx context.Context, name string, content []byte, folderID string) (string, error) {

	file, err := c.service.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(bytes.NewReader(content)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload '%s': %w", name, err)
	}

	return file.Id, nil
}

// ReplaceContent overwrites the file's bytes in place, preserving its
// identity so the next lookup by name keeps resolving to the same id.
func (c *driveClient) ReplaceContent(ctx context.Context, fileID string, content []byte) error {

	_, err := c.service.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(content)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to replace content of '%s': %w", fileID, err)
	}

	return nil
}

func (c *driveClient) DownloadContent(ctx context.Context, fileID string) ([]byte, error) {

	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download '%s': %w", fileID, err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of '%s': %w", fileID, err)
	}

	return data, nil
}

// findFirst walks every result page. A single page is not authoritative: the
// loop only concludes "not found" once the page token runs out.
func (c *driveClient) findFirst(ctx context.Context, query string) (string, error) {

	pageToken := ""

	for {
		call := c.service.Files.List().
			Q(query).
			Spaces("drive").
			Fields("nextPageToken, files(id, name)").
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			return "", fmt.Errorf("failed to list remote objects: %w", err)
		}

		if len(result.Files) > 0 {
			return result.Files[0].Id, nil
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			return "", nil
		}
	}
}

// escapeName guards the single-quoted Drive query syntax. Backslashes first,
// so a name ending in `\` cannot neutralize the quote escape.
func escapeName(name string) string {
	escaped := strings.ReplaceAll(name, `\`, `\\`)

	return strings.ReplaceAll(escaped, "'", `\'`)
}
