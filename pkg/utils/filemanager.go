// =============================================================================
// BOM Structure Converter - File Utilities
// =============================================================================
//
// File-system helpers shared by the converters:
//   - conversion folder creation ("ESTRUTURA <assembly>")
//   - copying the source export next to the generated files
//   - discovery of .xlsx inputs in a directory
//
// Each conversion run gets its own folder holding the output CSV, the
// exclusions report, and a copy of the input export, so the whole run can
// be archived or mailed as one unit.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputFolderName builds the conversion folder name for an assembly code.
func OutputFolderName(assembly string) string {
	return fmt.Sprintf("ESTRUTURA %s", assembly)
}

// EnsureOutputFolder creates the conversion folder under baseDir and
// returns its path. When baseDir is empty the folder is created next to
// the input file.
func EnsureOutputFolder(baseDir, inputFile, assembly string) (string, error) {
	if baseDir == "" {
		baseDir = filepath.Dir(inputFile)
	}
	dir := filepath.Join(baseDir, OutputFolderName(assembly))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output folder: %w", err)
	}
	return dir, nil
}

// CopyFile copies src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return out.Sync()
}

// CopyIntoFolder copies a file into dir, keeping its base name, and
// returns the destination path.
func CopyIntoFolder(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if err := CopyFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindExcelFiles returns the .xlsx files directly inside dir, sorted by
// name. Temporary Excel lock files ("~$...") are skipped.
func FindExcelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// BaseNameWithoutExt returns the file name with its extension removed.
func BaseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
