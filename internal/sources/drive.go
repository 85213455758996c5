package sources

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rollcall/internal/fileutil"
	"rollcall/internal/logging"
	"rollcall/internal/recording"
	"rollcall/internal/services"
)

// DriveSource reads recording files from a locally synced drive folder.
// File identifiers are root-relative paths, stable across scans as long as
// the file does not move.
type DriveSource struct {
	root   string
	logger *slog.Logger
}

// NewDriveSource creates a source rooted at the given directory.
func NewDriveSource(root string, logger *slog.Logger) *DriveSource {
	return &DriveSource{
		root:   root,
		logger: logging.NewComponentLogger(logger, "drive"),
	}
}

// List walks the tree below the root and returns one annotated RawFile per
// candidate, honoring the depth and size filters.
func (d *DriveSource) List(ctx context.Context, opts ListOptions) ([]recording.RawFile, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "list", "inbox directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "list", fmt.Sprintf("%s is not a directory", d.root), nil)
	}

	var files []recording.RawFile
	skipped := 0

	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		depth := strings.Count(rel, string(filepath.Separator))
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		fileInfo, err := entry.Info()
		if err != nil {
			return err
		}

		file := recording.RawFile{
			ID:               rel,
			Name:             entry.Name(),
			Path:             path,
			Size:             fileInfo.Size(),
			CreatedAt:        fileInfo.ModTime(),
			ParentFolderID:   filepath.Dir(rel),
			ParentFolderName: filepath.Base(filepath.Dir(path)),
			FileType:         recording.ClassifyFileType(entry.Name()),
		}
		if file.ParentFolderID == "." {
			file.ParentFolderID = ""
			file.ParentFolderName = ""
		}

		if file.FileType.IsMedia() && opts.MinFileSize > 0 && file.Size < opts.MinFileSize {
			skipped++
			return nil
		}

		files = append(files, recording.Annotate(file))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrTransient, "drive", "list", "walk inbox", err)
	}

	d.logger.Debug("inbox scan complete",
		logging.Int("files", len(files)),
		logging.Int("skipped_small", skipped),
	)
	return files, nil
}

// Download copies the file's bytes to destPath with integrity verification.
func (d *DriveSource) Download(ctx context.Context, file recording.RawFile, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "drive", "download", "create destination directory", err)
	}
	if err := fileutil.CopyFileVerified(file.Path, destPath); err != nil {
		return services.Wrap(services.ErrTransient, "drive", "download", file.Name, err)
	}
	return nil
}
