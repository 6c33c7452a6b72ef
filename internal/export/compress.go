package export

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/andybalholm/brotli"
)

// CompressFile writes a brotli-compressed sibling of path (path + ".br").
func CompressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".br")
	if err != nil {
		return fmt.Errorf("export: create %s.br: %w", path, err)
	}

	bw := brotli.NewWriter(dst)
	if _, err := io.Copy(bw, src); err != nil {
		dst.Close()
		return fmt.Errorf("export: compress %s: %w", path, err)
	}
	if err := bw.Close(); err != nil {
		dst.Close()
		return fmt.Errorf("export: finish %s.br: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("export: close %s.br: %w", path, err)
	}
	return nil
}

// BundleDir packs every regular file under dir into a brotli-compressed tar
// at outPath, for SFTP delivery. Entries are added in sorted path order so
// the bundle is deterministic.
func BundleDir(dir, outPath string) error {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export: walk %s: %w", dir, err)
	}
	sort.Strings(files)

	if err := ensureDir(outPath); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", outPath, err)
	}

	bw := brotli.NewWriter(out)
	tw := tar.NewWriter(bw)

	for _, path := range files {
		if err := addTarEntry(tw, dir, path); err != nil {
			tw.Close()
			bw.Close()
			out.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		bw.Close()
		out.Close()
		return fmt.Errorf("export: finish tar: %w", err)
	}
	if err := bw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("export: finish %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", outPath, err)
	}
	return nil
}

func addTarEntry(tw *tar.Writer, root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return fmt.Errorf("export: bundle entry %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("export: stat %s: %w", path, err)
	}

	hdr := &tar.Header{
		Name: filepath.ToSlash(rel),
		Mode: 0o644,
		Size: info.Size(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("export: tar header %s: %w", rel, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("export: tar copy %s: %w", rel, err)
	}
	return nil
}
