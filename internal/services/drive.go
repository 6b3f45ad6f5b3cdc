package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const folderMimeType = "application/vnd.google-apps.folder"

var unsafeFileNameChars = regexp.MustCompile(`[^\w.\-]`)

// DriveService is the blob-store adapter: photo uploads under
// <root>/Fotos/<user>, nutrition plan listing under the plans root, and
// streaming downloads/thumbnails for both.
type DriveService struct {
	client *gsuite.Client
	cfg    *config.Config
}

func NewDriveService(client *gsuite.Client, cfg *config.Config) *DriveService {
	return &DriveService{client: client, cfg: cfg}
}

// EnsureFolder finds or creates a folder by name under a parent.
func (s *DriveService) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	query := strings.Join([]string{
		fmt.Sprintf("'%s' in parents", parentID),
		fmt.Sprintf("name='%s'", escapeDriveQuery(name)),
		fmt.Sprintf("mimeType='%s'", folderMimeType),
		"trashed=false",
	}, " and ")

	list, err := s.client.Drive.Files.List().Q(query).Fields("files(id,name)").PageSize(10).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("search folder %q: %w", name, err)
	}
	if len(list.Files) > 0 && list.Files[0].Id != "" {
		return list.Files[0].Id, nil
	}

	created, err := s.client.Drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	if created.Id == "" {
		return "", fmt.Errorf("create folder %q: missing id", name)
	}
	return created.Id, nil
}

func escapeDriveQuery(value string) string {
	return strings.ReplaceAll(value, "'", `\'`)
}

func sanitizeFileName(name string) string {
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

// UploadPhoto stores the photo under the user's folder, makes it
// link-readable and returns the public drive URL the =IMAGE formula
// will embed.
func (s *DriveService) UploadPhoto(ctx context.Context, userName, originalFileName, mimeType string, content io.Reader) (string, error) {
	fotosID, err := s.EnsureFolder(ctx, s.cfg.DriveRootFolderID, "Fotos")
	if err != nil {
		return "", err
	}
	userFolderID, err := s.EnsureFolder(ctx, fotosID, userName)
	if err != nil {
		return "", err
	}

	// Drive allows duplicate names inside a folder; the uuid prefix
	// keeps every upload addressable by name anyway.
	driveFileName := uuid.NewString() + "_" + sanitizeFileName(originalFileName)

	created, err := s.client.Drive.Files.Create(&drive.File{
		Name:    driveFileName,
		Parents: []string{userFolderID},
	}).Media(content, googleapi.ContentType(mimeType)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	if created.Id == "" {
		return "", errors.New("upload photo: missing file id")
	}

	_, err = s.client.Drive.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("share photo: %w", err)
	}

	return "https://drive.google.com/uc?id=" + created.Id, nil
}

// findUserFolder locates the user's folder under the plans root by
// normalized name; the coach names folders by hand, so tolerate case
// and "@" variations the same way usernames are matched elsewhere.
func (s *DriveService) findUserFolder(ctx context.Context, rootID, username string) (string, error) {
	query := strings.Join([]string{
		fmt.Sprintf("'%s' in parents", rootID),
		fmt.Sprintf("mimeType='%s'", folderMimeType),
		"trashed=false",
	}, " and ")

	list, err := s.client.Drive.Files.List().Q(query).Fields("files(id,name)").PageSize(300).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list plan folders: %w", err)
	}

	for _, item := range list.Files {
		if item.Id != "" && utils.SameUsername(item.Name, username) {
			return item.Id, nil
		}
	}
	return "", nil
}

// ListNutritionPlans returns the plan PDFs in the user's folder,
// resolving shortcuts to their targets and dropping duplicates.
func (s *DriveService) ListNutritionPlans(ctx context.Context, username string) ([]models.NutritionPlanFile, error) {
	userFolderID, err := s.findUserFolder(ctx, s.cfg.NutritionPlansRootFolderID, username)
	if err != nil {
		return nil, err
	}
	if userFolderID == "" {
		return []models.NutritionPlanFile{}, nil
	}

	list, err := s.client.Drive.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", userFolderID)).
		Fields("files(id,name,mimeType,createdTime,modifiedTime,size,shortcutDetails)").
		OrderBy("modifiedTime desc").
		PageSize(200).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list plan files: %w", err)
	}
	return filterPlanFiles(list.Files), nil
}

func filterPlanFiles(files []*drive.File) []models.NutritionPlanFile {
	seen := make(map[string]bool)
	out := make([]models.NutritionPlanFile, 0, len(files))

	for _, item := range files {
		if item == nil {
			continue
		}
		shortcutTargetID := ""
		shortcutTargetMime := ""
		if item.ShortcutDetails != nil {
			shortcutTargetID = item.ShortcutDetails.TargetId
			shortcutTargetMime = item.ShortcutDetails.TargetMimeType
		}

		isPDF := item.MimeType == "application/pdf" ||
			strings.HasSuffix(strings.ToLower(item.Name), ".pdf") ||
			(item.MimeType == "application/vnd.google-apps.shortcut" && shortcutTargetMime == "application/pdf")
		if !isPDF {
			continue
		}

		resolvedID := shortcutTargetID
		if resolvedID == "" {
			resolvedID = item.Id
		}
		if resolvedID == "" || seen[resolvedID] {
			continue
		}
		seen[resolvedID] = true

		mimeType := item.MimeType
		if mimeType == "" || mimeType == "application/vnd.google-apps.shortcut" {
			mimeType = "application/pdf"
		}
		out = append(out, models.NutritionPlanFile{
			ID:           resolvedID,
			Name:         item.Name,
			MimeType:     mimeType,
			CreatedTime:  item.CreatedTime,
			ModifiedTime: item.ModifiedTime,
			SizeBytes:    item.Size,
		})
	}
	return out
}

// DriveFile is streamed file content plus the metadata headers need.
type DriveFile struct {
	Content  io.ReadCloser
	Name     string
	MimeType string
}

// Download fetches metadata and media in parallel and hands the media
// body to the caller, who owns closing it.
func (s *DriveService) Download(ctx context.Context, fileID string) (*DriveFile, error) {
	var meta *drive.File
	var media *http.Response

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.client.Drive.Files.Get(fileID).Fields("name,mimeType").Context(gctx).Do()
		if err != nil {
			return fmt.Errorf("file metadata: %w", err)
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		res, err := s.client.Drive.Files.Get(fileID).Context(gctx).Download()
		if err != nil {
			return fmt.Errorf("file media: %w", err)
		}
		media = res
		return nil
	})
	if err := g.Wait(); err != nil {
		if media != nil {
			media.Body.Close()
		}
		return nil, err
	}

	name := meta.Name
	if name == "" {
		name = fileID + ".bin"
	}
	mimeType := meta.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &DriveFile{Content: media.Body, Name: name, MimeType: mimeType}, nil
}

// Thumbnail fetches the drive-generated preview image for a file, or
// nil when the file has none.
func (s *DriveService) Thumbnail(ctx context.Context, fileID string) (*DriveFile, error) {
	meta, err := s.client.Drive.Files.Get(fileID).Fields("thumbnailLink").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("thumbnail metadata: %w", err)
	}
	if meta.ThumbnailLink == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.ThumbnailLink, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.client.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thumbnail: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("fetch thumbnail: status %d", res.StatusCode)
	}

	mimeType := res.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return &DriveFile{Content: res.Body, MimeType: mimeType}, nil
}
