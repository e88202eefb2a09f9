package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/student-agreement-api/internal/models"
)

const dataFileName = "submissions.json"

// FileStore keeps the whole submission collection in a single JSON file.
// Every mutation reads the complete collection, applies the change and
// writes the collection back. A mutex serialises mutations so in-process
// writers cannot lose updates.
type FileStore struct {
	dir  string
	path string
	mu   sync.Mutex
}

// NewFileStore prepares the data directory and returns a store handle.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir, path: filepath.Join(dir, dataFileName)}, nil
}

// Create stores a new pending submission at the head of the collection.
func (s *FileStore) Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.read()
	if err != nil {
		return nil, err
	}

	submission := models.Submission{
		ID:               uuid.NewString(),
		Status:           models.StatusPending,
		FormData:         formData,
		SignatureDataURL: signatureDataURL,
		SubmittedAt:      time.Now().UTC(),
	}

	submissions = append([]models.Submission{submission}, submissions...)
	if err := s.write(submissions); err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetByID performs a linear lookup by id.
func (s *FileStore) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range submissions {
		if submissions[i].ID == id {
			found := submissions[i]
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// List returns all submissions in storage order (newest first).
func (s *FileStore) List(ctx context.Context) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Update merges the patch into the record and persists the collection.
// No write happens when the id is absent.
func (s *FileStore) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.read()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range submissions {
		if submissions[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	applyPatch(&submissions[index], patch)
	if err := s.write(submissions); err != nil {
		return nil, err
	}
	updated := submissions[index]
	return &updated, nil
}

func (s *FileStore) read() ([]models.Submission, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Submission{}, nil
		}
		return nil, fmt.Errorf("read submissions file: %w", err)
	}
	if len(raw) == 0 {
		return []models.Submission{}, nil
	}
	var submissions []models.Submission
	if err := json.Unmarshal(raw, &submissions); err != nil {
		return nil, fmt.Errorf("decode submissions file: %w", err)
	}
	return submissions, nil
}

func (s *FileStore) write(submissions []models.Submission) error {
	payload, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode submissions: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write submissions file: %w", err)
	}
	return nil
}
