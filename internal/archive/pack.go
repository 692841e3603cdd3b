// Package archive moves large items into S3-compatible object storage
// as compressed tarballs before (optionally) deleting the originals.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// Pack writes src (a file or directory tree) to dst as a gzip-compressed
// tarball. Symlinks are stored as links, never followed.
func Pack(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := pgzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	base := filepath.Base(src)
	if info.IsDir() {
		err = filepath.Walk(src, func(path string, fi os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			name := base
			if rel != "." {
				name = filepath.ToSlash(filepath.Join(base, rel))
			}
			return writeEntry(tw, path, name, fi)
		})
	} else {
		err = writeEntry(tw, src, base, info)
	}
	if err != nil {
		return fmt.Errorf("pack %s: %w", src, err)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}

func writeEntry(tw *tar.Writer, path, name string, fi os.FileInfo) error {
	var link string
	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return err
		}
		link = target
	}

	hdr, err := tar.FileInfoHeader(fi, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if fi.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	if !fi.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

// Unpack extracts a tarball created by Pack into dstDir. Entries that
// would escape dstDir are rejected.
func Unpack(src, dstDir string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	gz, err := pgzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", src, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := filepath.Clean(hdr.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return fmt.Errorf("unsafe entry %q in archive", hdr.Name)
		}
		target := filepath.Join(dstDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// A link target escaping dstDir would let later entries
			// write through it to arbitrary paths.
			if filepath.IsAbs(hdr.Linkname) {
				return fmt.Errorf("unsafe link target %q in archive", hdr.Linkname)
			}
			resolved := filepath.Join(filepath.Dir(name), hdr.Linkname)
			if resolved == ".." || strings.HasPrefix(resolved, ".."+string(filepath.Separator)) {
				return fmt.Errorf("unsafe link target %q in archive", hdr.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
}
