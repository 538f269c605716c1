package download

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrBinaryNotFound means the archive held no entry with the wanted name.
var ErrBinaryNotFound = errors.New("binary not found in archive")

// ExtractBinary pulls a single named file out of a tar.gz archive into a
// temp file and returns its path. Release archives nest the binary under a
// versioned directory, so entries match on base name.
func ExtractBinary(archivePath, binaryName string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read archive entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != binaryName {
			continue
		}

		tmpFile, err := os.CreateTemp("", binaryName+"-*")
		if err != nil {
			return "", fmt.Errorf("failed to create temp file: %w", err)
		}

		if _, err := io.Copy(tmpFile, tr); err != nil {
			tmpFile.Close()
			os.Remove(tmpFile.Name())
			return "", fmt.Errorf("failed to extract %s: %w", binaryName, err)
		}

		if err := tmpFile.Close(); err != nil {
			os.Remove(tmpFile.Name())
			return "", err
		}

		return tmpFile.Name(), nil
	}

	return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, binaryName)
}

// InstallBinary moves an extracted binary into place with exec permissions.
// The write goes through a sibling temp file so a crash mid-copy never
// leaves a truncated binary at the destination.
func InstallBinary(srcPath, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create install directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open extracted binary: %w", err)
	}
	defer src.Close()

	staging, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+"-*")
	if err != nil {
		return fmt.Errorf("failed to stage binary: %w", err)
	}

	if _, err := io.Copy(staging, src); err != nil {
		staging.Close()
		os.Remove(staging.Name())
		return fmt.Errorf("failed to write binary: %w", err)
	}

	if err := staging.Chmod(0o755); err != nil {
		staging.Close()
		os.Remove(staging.Name())
		return err
	}

	if err := staging.Close(); err != nil {
		os.Remove(staging.Name())
		return err
	}

	if err := os.Rename(staging.Name(), destPath); err != nil {
		os.Remove(staging.Name())
		return fmt.Errorf("failed to install binary: %w", err)
	}

	return nil
}
