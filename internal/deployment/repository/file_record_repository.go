// Package repository persists deployment records as JSON files.
package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	deploymentDomain "github.com/allisson/securevault/internal/deployment/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// FileRecordRepository writes deployment records to the local filesystem.
type FileRecordRepository struct{}

// NewFileRecordRepository creates a new FileRecordRepository.
func NewFileRecordRepository() *FileRecordRepository {
	return &FileRecordRepository{}
}

// Save writes record as indented JSON. The file is written to a temporary
// sibling and renamed into place so readers never see a partial record.
func (f *FileRecordRepository) Save(path string, record *deploymentDomain.DeploymentRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode deployment record")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".deployment-*.json")
	if err != nil {
		return apperrors.Wrap(err, "failed to create deployment record")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return apperrors.Wrap(err, "failed to write deployment record")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(err, "failed to write deployment record")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.Wrap(err, "failed to write deployment record")
	}
	return nil
}

// Load reads a deployment record.
func (f *FileRecordRepository) Load(path string) (*deploymentDomain.DeploymentRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read deployment record")
	}

	var record deploymentDomain.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode deployment record")
	}
	return &record, nil
}

// Remove deletes the record. A missing file is not an error.
func (f *FileRecordRepository) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(err, "failed to remove deployment record")
	}
	return nil
}
