package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"taskmaster/internal/model"
)

const backupStampLayout = "20060102_150405"

// Store persists the record list to a single flat JSON file. Every
// destructive write is preceded by a defensive copy; that copy is the
// entire durability strategy. Store never returns errors for read
// problems, it degrades to an empty list and logs what happened.
type Store struct {
	path string
	now  func() time.Time
}

// FileStats describes the backing file.
type FileStats struct {
	Size       int64
	ModifiedAt time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// EnsureExists creates the backing file holding an empty list when it is
// absent. Best-effort: failure is logged, never returned.
func (s *Store) EnsureExists() {
	if _, err := os.Stat(s.path); err == nil {
		return
	}
	if err := os.WriteFile(s.path, emptyListJSON(), 0o644); err != nil {
		zap.L().Error("create data file", zap.String("path", s.path), zap.Error(err))
	}
}

// Load reads the full record list from the backing file.
//
// A missing file is recreated empty. Corrupt content is renamed to a
// timestamped backup, the file is recreated empty and the corrupt data is
// preserved for manual recovery only; the caller still gets an empty list.
// Any other read error also yields an empty list, without renaming.
func (s *Store) Load() []model.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.EnsureExists()
			return []model.Record{}
		}
		zap.L().Error("read data file", zap.String("path", s.path), zap.Error(err))
		return []model.Record{}
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		backupName := fmt.Sprintf("%s.backup_%s", s.path, s.now().Format(backupStampLayout))
		if renameErr := os.Rename(s.path, backupName); renameErr != nil {
			zap.L().Warn("rename corrupt data file", zap.String("path", s.path), zap.Error(renameErr))
		} else {
			zap.L().Warn("corrupt data file preserved",
				zap.String("path", s.path),
				zap.String("backup", backupName),
				zap.Error(err))
		}
		s.EnsureExists()
		return []model.Record{}
	}
	if records == nil {
		records = []model.Record{}
	}
	return records
}

// Save replaces the file contents with the full record list. The previous
// contents are copied to <path>.bak first; on a failed write the file is
// restored from that copy. The result is reported as a bool, never an error.
func (s *Store) Save(records []model.Record) bool {
	bakPath := s.path + ".bak"
	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, bakPath); err != nil {
			zap.L().Warn("write .bak backup", zap.String("path", bakPath), zap.Error(err))
		}
	}

	if records == nil {
		records = []model.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		zap.L().Error("encode records", zap.Error(err))
		return false
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		zap.L().Error("write data file", zap.String("path", s.path), zap.Error(err))
		if _, statErr := os.Stat(bakPath); statErr == nil {
			if restoreErr := copyFile(bakPath, s.path); restoreErr != nil {
				zap.L().Error("restore from .bak", zap.String("path", s.path), zap.Error(restoreErr))
			} else {
				zap.L().Info("data file restored from backup", zap.String("path", s.path))
			}
		}
		return false
	}
	return true
}

// Backup copies the current file to a fresh timestamped name and returns
// that name.
func (s *Store) Backup() (string, error) {
	if _, err := os.Stat(s.path); err != nil {
		return "", fmt.Errorf("nothing to back up: %w", err)
	}
	backupName := fmt.Sprintf("%s.backup_%s", s.path, s.now().Format(backupStampLayout))
	if err := copyFile(s.path, backupName); err != nil {
		zap.L().Error("write backup", zap.String("path", backupName), zap.Error(err))
		return "", err
	}
	return backupName, nil
}

// Stats reports size and modification time of the backing file. The second
// return is false when the file is absent or unreadable.
func (s *Store) Stats() (FileStats, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return FileStats{}, false
	}
	return FileStats{Size: info.Size(), ModifiedAt: info.ModTime()}, true
}

func emptyListJSON() []byte {
	return []byte("[]")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
