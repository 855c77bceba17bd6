package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the output key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions maps recognized extensions to format names.
var imageExtensions = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".webp": "webp",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
	".tif":  "tiff",
}

// ScanImages walks inputDir and returns all image sources in lexical order.
// Hidden directories and skipDir (typically the output directory when it is
// nested in the input) are not descended into.
func ScanImages(inputDir, skipDir string) ([]Source, error) {
	var sources []Source
	skip := ""
	if skipDir != "" {
		if abs, err := filepath.Abs(skipDir); err == nil {
			skip = abs
		}
	}

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && abs == skip && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := imageExtensions[ext]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			// Key: relative path without extension, using forward slashes.
			Key:    filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
			Format: format,
			Size:   info.Size(),
		})
		return nil
	})

	return sources, err
}
