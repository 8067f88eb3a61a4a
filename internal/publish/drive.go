// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// listFields limits file listings to what cleanup needs.
const listFields = "nextPageToken, files(id, name, createdTime)"

// DriveStore stores artifacts as Google Drive files.
type DriveStore struct {
	srv *drive.Service
}

// NewDriveStore builds a Drive store over an authorized HTTP client. Extra
// options (endpoint overrides in tests) are appended.
func NewDriveStore(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*DriveStore, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &DriveStore{srv: srv}, nil
}

func (d *DriveStore) Upload(ctx context.Context, name, mimeType string, r io.Reader) (string, error) {
	f, err := d.srv.Files.Create(&drive.File{Name: name, MimeType: mimeType}).
		Media(r, googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

// FindByName pages through every non-trashed file whose name matches exactly.
func (d *DriveStore) FindByName(ctx context.Context, name string) ([]Artifact, error) {
	var out []Artifact
	call := d.srv.Files.List().Q(NameQuery(name)).Fields(listFields)
	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			a := Artifact{ID: f.Id, Name: f.Name}
			if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
				a.Created = t
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DriveStore) Trash(ctx context.Context, id string) error {
	_, err := d.srv.Files.Update(id, &drive.File{Trashed: true}).Context(ctx).Do()
	return err
}

func (d *DriveStore) Delete(ctx context.Context, id string) error {
	return d.srv.Files.Delete(id).Context(ctx).Do()
}

func (d *DriveStore) SharePublic(ctx context.Context, id string) error {
	_, err := d.srv.Permissions.Create(id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	return err
}

// NameQuery builds the Drive search expression for non-trashed files named
// exactly name. Backslashes and single quotes are escaped.
func NameQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and trashed = false", escaped)
}

var _ ArtifactStore = (*DriveStore)(nil)
