package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src to dst (mode 0o644) and returns the bytes written.
func CopyFile(src, dst string) (int64, error) {
	written, _, err := copyHashing(src, dst, nil)
	return written, err
}

// CopyFileVerified copies src to dst, then re-reads dst and compares its
// SHA-256 with the digest of the bytes read from src. dst is removed on
// mismatch.
func CopyFileVerified(src, dst string) (int64, error) {
	written, want, err := copyHashing(src, dst, sha256.New())
	if err != nil {
		return written, err
	}
	got, err := digest(dst)
	if err != nil {
		return written, fmt.Errorf("verify copy: %w", err)
	}
	if !bytes.Equal(want, got) {
		_ = os.Remove(dst)
		return written, fmt.Errorf("verify copy: %s differs from %s after %d bytes", dst, src, written)
	}
	return written, nil
}

func copyHashing(src, dst string, h hash.Hash) (int64, []byte, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, nil, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, nil, err
	}

	var r io.Reader = in
	if h != nil {
		r = io.TeeReader(in, h)
	}
	written, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil || h == nil {
		return written, nil, err
	}
	return written, h.Sum(nil), nil
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// PublishFile copies src to dst via a ".partial" sibling renamed into place,
// so dst is either absent or complete.
func PublishFile(src, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create destination directory: %w", err)
	}
	tmp := dst + ".partial"
	written, err := CopyFile(src, tmp)
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return written, fmt.Errorf("publish %s: %w", filepath.Base(dst), err)
	}
	return written, nil
}

// Exists reports whether path names a non-empty regular file.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
