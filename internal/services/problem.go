package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"LCID/internal/models"
	"LCID/internal/repositories"

	"go.uber.org/zap"
)

const loadFailedMessage = "Cannot load problem data."

// ProblemService answers read requests from the stored catalog snapshot.
// Every error it returns is a *models.ServerError.
type ProblemService struct {
	store repositories.SnapshotStore
	key   string
	log   *zap.Logger
}

func NewProblemService(store repositories.SnapshotStore, key string, log *zap.Logger) *ProblemService {
	return &ProblemService{
		store: store,
		key:   key,
		log:   log.Named("problems"),
	}
}

// LoadCatalogJSON returns the stored catalog bytes unchanged, once they are
// known to decode as a catalog.
func (s *ProblemService) LoadCatalogJSON(ctx context.Context) ([]byte, error) {
	catalog, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.raw, nil
}

// LoadProblemJSON returns the stored entry for id as it appears in the catalog.
func (s *ProblemService) LoadProblemJSON(ctx context.Context, id string) (json.RawMessage, error) {
	catalog, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := catalog.entries[id]
	if !ok {
		return nil, s.notFound(id)
	}
	return entry, nil
}

// LoadProblem returns the decoded entry for id.
func (s *ProblemService) LoadProblem(ctx context.Context, id string) (*models.Question, error) {
	catalog, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	question, ok := catalog.questions[id]
	if !ok {
		return nil, s.notFound(id)
	}
	return &question, nil
}

// storedCatalog is a snapshot that decoded cleanly. Null entries are left out
// of entries and questions.
type storedCatalog struct {
	raw       []byte
	entries   map[string]json.RawMessage
	questions map[string]models.Question
}

// loadEntries reads the snapshot and splits it into per-problem entries. A
// missing snapshot, one that does not decode, and one holding an entry that
// is not a problem with a slug are all load failures.
func (s *ProblemService) loadEntries(ctx context.Context) (*storedCatalog, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			s.log.Error("Cannot load problems from store, snapshot is missing", zap.String("key", s.key))
		} else {
			s.log.Error("Cannot load problems from store", zap.String("key", s.key), zap.Error(err))
		}
		return nil, loadFailed()
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Error("Stored snapshot is not a catalog",
			zap.String("key", s.key),
			zap.Int("bytes", len(raw)),
			zap.Error(err))
		return nil, loadFailed()
	}
	if entries == nil {
		s.log.Error("Stored snapshot is null", zap.String("key", s.key))
		return nil, loadFailed()
	}

	questions := make(map[string]models.Question, len(entries))
	for id, entry := range entries {
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			delete(entries, id)
			continue
		}

		var question models.Question
		if err := json.Unmarshal(entry, &question); err != nil {
			s.log.Error("Stored problem entry is malformed",
				zap.String("key", s.key),
				zap.String("problem_id", id),
				zap.Error(err))
			return nil, loadFailed()
		}
		if question.TitleSlug == "" {
			s.log.Error("Stored problem entry has no slug",
				zap.String("key", s.key),
				zap.String("problem_id", id))
			return nil, loadFailed()
		}
		questions[id] = question
	}

	return &storedCatalog{raw: raw, entries: entries, questions: questions}, nil
}

func (s *ProblemService) notFound(id string) *models.ServerError {
	s.log.Info("Cannot find problem", zap.String("problem_id", id))
	return &models.ServerError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("Cannot find problem %s.", id),
	}
}

func loadFailed() *models.ServerError {
	return &models.ServerError{Code: http.StatusInternalServerError, Message: loadFailedMessage}
}
