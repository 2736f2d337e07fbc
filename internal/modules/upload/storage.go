package upload

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxBytes = 10 << 20
	DefaultBaseDir  = "./uploads"
	DefaultURLBase  = "/static/uploads"
)

// allowedMimeTypes: verification documents only.
var allowedMimeTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type StoredFile struct {
	Name     string `json:"name"`
	Path     string `json:"-"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Storage writes files under baseDir/YYYY/MM/DD and exposes them below urlBase.
type Storage struct {
	baseDir  string
	urlBase  string
	maxBytes int64
	now      func() time.Time
}

func NewStorage(baseDir, urlBase string, maxBytes int64) *Storage {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Storage{
		baseDir:  baseDir,
		urlBase:  strings.TrimRight(urlBase, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (s *Storage) BaseDir() string { return s.baseDir }
func (s *Storage) URLBase() string { return s.urlBase }

// Save sniffs the content type, then copies at most maxBytes to disk.
func (s *Storage) Save(originalName string, size int64, r io.Reader) (*StoredFile, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	mimeType := strings.Split(http.DetectContentType(head), ";")[0]
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", uuid.NewString(), sanitizeName(originalName), ext)
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	// one extra byte detects a body larger than the declared size
	written, err := io.Copy(dst, io.LimitReader(br, s.maxBytes+1))
	closeErr := dst.Close()
	switch {
	case err != nil:
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	case closeErr != nil:
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("close file: %w", closeErr)
	case written > s.maxBytes:
		_ = os.Remove(absPath)
		return nil, ErrFileTooLarge
	}

	relPath := path.Join(relDir, filename)
	return &StoredFile{
		Name:     originalName,
		Path:     absPath,
		URL:      s.urlBase + "/" + relPath,
		MimeType: mimeType,
		Size:     written,
	}, nil
}

// Remove deletes a stored file; a missing file is not an error.
func (s *Storage) Remove(f *StoredFile) error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "." {
		return "file"
	}
	return name
}
