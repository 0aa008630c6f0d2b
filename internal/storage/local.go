// Package storage abstracts binary object storage: save a payload, get back a
// public URL. The shipped implementation writes to local disk and serves the
// files over the API's static route.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves binary objects and returns publicly reachable URLs.
type Store interface {
	Save(name string, r io.Reader) (url string, err error)
}

type localStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory if needed and returns a
// disk-backed store. baseURL is the public origin the files are served from.
func NewLocalStore(dir, baseURL string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the payload under a random file name, keeping the original
// extension so content type sniffing keeps working downstream.
func (s *localStore) Save(name string, r io.Reader) (string, error) {
	ext := filepath.Ext(name)
	fileName := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, fileName))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return s.baseURL + "/uploads/" + fileName, nil
}
