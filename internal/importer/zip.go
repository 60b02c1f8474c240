// Package importer unpacks zip archives into the document hierarchy,
// recreating the archive's directory structure as folders.
package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"papershelf/internal/domain"
	"papershelf/internal/service"
	"papershelf/internal/store"
)

// maxEntrySize caps a single extracted file. Larger entries are skipped
// rather than failing the whole import.
const maxEntrySize = 100 << 20

// ZipImporter extracts archive entries into documents and folders.
type ZipImporter struct {
	store     *store.Store
	documents *service.DocumentService
	logger    *slog.Logger
}

// NewZipImporter creates a zip importer.
func NewZipImporter(st *store.Store, documents *service.DocumentService, logger *slog.Logger) *ZipImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZipImporter{store: st, documents: documents, logger: logger}
}

// ImportResult summarizes one archive import.
type ImportResult struct {
	DocumentsCreated int      `json:"documents_created"`
	FoldersCreated   int      `json:"folders_created"`
	Skipped          []string `json:"skipped,omitempty"`
	Failed           []string `json:"failed,omitempty"`
}

// Import extracts every file in the archive under baseFolder (nil =
// root). Directory entries become folders; existing folders with the
// same name are reused. Unreadable or oversized entries are recorded
// and skipped, never aborting the rest of the archive.
func (z *ZipImporter) Import(ctx context.Context, archive []byte, baseFolder *string) (*ImportResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &domain.ValidationError{Message: "not a valid zip archive: " + err.Error()}
	}

	result := &ImportResult{}
	folderCache := make(map[string]*string)

	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := path.Clean(entry.Name)
		if shouldSkipEntry(name) {
			continue
		}

		if entry.FileInfo().IsDir() {
			if _, err := z.ensureFolderPath(ctx, name, baseFolder, folderCache, result); err != nil {
				result.Failed = append(result.Failed, fmt.Sprintf("%s: %s", entry.Name, err))
			}
			continue
		}

		if entry.UncompressedSize64 > maxEntrySize {
			result.Skipped = append(result.Skipped, entry.Name)
			continue
		}

		dir, filename := path.Split(name)
		folderID, err := z.ensureFolderPath(ctx, strings.TrimSuffix(dir, "/"), baseFolder, folderCache, result)
		if err != nil {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %s", entry.Name, err))
			continue
		}

		payload, err := readEntry(entry)
		if err != nil {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %s", entry.Name, err))
			continue
		}

		if _, err := z.documents.Import(ctx, service.ImportRequest{
			Filename: filename,
			Payload:  payload,
			FolderID: folderID,
		}); err != nil {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %s", entry.Name, err))
			continue
		}
		result.DocumentsCreated++
	}

	z.logger.Info("zip import finished",
		"documents", result.DocumentsCreated,
		"folders", result.FoldersCreated,
		"skipped", len(result.Skipped),
		"failed", len(result.Failed))
	return result, nil
}

// ensureFolderPath walks the slash-separated path, creating missing
// folders, and returns the id of the deepest one.
func (z *ZipImporter) ensureFolderPath(ctx context.Context, dir string, baseFolder *string, cache map[string]*string, result *ImportResult) (*string, error) {
	if dir == "" || dir == "." {
		return baseFolder, nil
	}
	if cached, ok := cache[dir]; ok {
		return cached, nil
	}

	parent := baseFolder
	var walked []string
	for _, segment := range strings.Split(dir, "/") {
		if segment == "" {
			continue
		}
		walked = append(walked, segment)
		key := strings.Join(walked, "/")
		if cached, ok := cache[key]; ok {
			parent = cached
			continue
		}

		if existing := z.store.FolderByName(parent, segment); existing != nil {
			parent = &existing.ID
			cache[key] = parent
			continue
		}

		folder, err := z.store.CreateFolder(ctx, segment, parent)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				if existing := z.store.FolderByName(parent, segment); existing != nil {
					parent = &existing.ID
					cache[key] = parent
					continue
				}
			}
			return nil, err
		}
		result.FoldersCreated++
		parent = &folder.ID
		cache[key] = parent
	}
	return parent, nil
}

func shouldSkipEntry(name string) bool {
	if name == "." || strings.HasPrefix(name, "__MACOSX") {
		return true
	}
	base := path.Base(name)
	return strings.HasPrefix(base, ".") || base == "Thumbs.db" || base == "desktop.ini"
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxEntrySize))
}
