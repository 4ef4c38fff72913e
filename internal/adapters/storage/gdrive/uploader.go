package gdrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// driveAPI is the part of the Drive files API the uploader needs.
type driveAPI interface {
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	UploadFile(ctx context.Context, name, mimeType string, content io.Reader, folderID string) (*drive.File, error)
}

// Uploader stores attachments in one Drive folder per ledger entry, under a
// configured root folder.
type Uploader struct {
	api          driveAPI
	rootFolderID string
	logger       *slog.Logger
}

// NewUploader authenticates with a service account key file.
func NewUploader(ctx context.Context, credentialsFile, rootFolderID string, logger *slog.Logger) (*Uploader, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return newUploader(&filesClient{svc: svc}, rootFolderID, logger), nil
}

func newUploader(api driveAPI, rootFolderID string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{api: api, rootFolderID: rootFolderID, logger: logger}
}

var _ portssvc.FileStorage = (*Uploader)(nil)

// FolderName is the Drive folder holding the attachments of one entry.
func FolderName(entryID, costCenterID int64) string {
	return fmt.Sprintf("Lançamento_%d_Obra_%d", entryID, costCenterID)
}

// UploadBatch creates the entry folder and uploads every named file into it.
// Files without a name are skipped.
func (u *Uploader) UploadBatch(ctx context.Context, files []domain.UploadFile, entryID int64, costCenterID int64) ([]domain.Attachment, error) {
	folderID, err := u.api.CreateFolder(ctx, FolderName(entryID, costCenterID), u.rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("create folder for entry %d: %w", entryID, err)
	}

	attachments := make([]domain.Attachment, 0, len(files))
	for _, file := range files {
		if file.Name == "" || file.Content == nil {
			continue
		}
		uploaded, err := u.api.UploadFile(ctx, file.Name, file.MimeType, file.Content, folderID)
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w", file.Name, err)
		}
		attachments = append(attachments, domain.Attachment{
			Name:        uploaded.Name,
			Link:        uploaded.WebViewLink,
			DownloadURL: uploaded.WebContentLink,
			StorageID:   uploaded.Id,
		})
	}

	u.logger.Debug("Uploaded attachments to drive",
		slog.Int64("entry_id", entryID),
		slog.String("folder_id", folderID),
		slog.Int("file_count", len(attachments)))
	return attachments, nil
}

type filesClient struct {
	svc *drive.Service
}

func (c *filesClient) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	folder := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}
	created, err := c.svc.Files.Create(folder).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (c *filesClient) UploadFile(ctx context.Context, name, mimeType string, content io.Reader, folderID string) (*drive.File, error) {
	var mediaOpts []googleapi.MediaOption
	if mimeType != "" {
		mediaOpts = append(mediaOpts, googleapi.ContentType(mimeType))
	}
	return c.svc.Files.Create(&drive.File{Name: name, Parents: []string{folderID}}).
		Media(content, mediaOpts...).
		Fields("id, name, webViewLink, webContentLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
}

// Disabled rejects uploads when no Drive credentials are configured.
type Disabled struct{}

var _ portssvc.FileStorage = Disabled{}

func (Disabled) UploadBatch(context.Context, []domain.UploadFile, int64, int64) ([]domain.Attachment, error) {
	return nil, fmt.Errorf("attachment storage is not configured: %w", apperrors.ErrUnavailable)
}
