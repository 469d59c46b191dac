//go:generate go run go.uber.org/mock/mockgen -source=assets.go -destination=../mocks/mock_asset_store.go -package=mocks

// Package storage holds the asset-store boundary: binary uploads leave the
// chat core here and only a serving reference travels with the records.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"pairchat/errors"
)

type IAssetStore interface {
	Store(data []byte) (string, error)
}

// DiskStore writes assets under a root directory and hands back the path
// they are served under. It stands in for the off-box object storage a
// hosted deployment would use; nothing above this boundary knows where the
// bytes actually live.
type DiskStore struct {
	root string
	log  *slog.Logger
}

func NewDiskStore(root string, log *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("asset root: %w", err)
	}
	return &DiskStore{root: root, log: log}, nil
}

// Store sniffs the payload content and only admits images, then writes it
// under a uuid-based name with the detected extension.
func (s *DiskStore) Store(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedAsset, mt.String())
	}

	name := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing asset: %w", err)
	}

	s.log.Debug("asset stored", "name", name, "mime", mt.String(), "bytes", len(data))
	return "/assets/" + name, nil
}
