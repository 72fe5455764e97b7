// Package notice implements notice listing and the guarded mutations on top
// of the store client.
package notice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dukerupert/noticeboard/internal/model"
	"github.com/dukerupert/noticeboard/internal/store"
)

// DefaultRoot is the collection notices live under.
const DefaultRoot = "notices"

type Service struct {
	store  store.Client
	root   string
	now    func() time.Time
	logger *slog.Logger
}

func NewService(c store.Client, root string, logger *slog.Logger) *Service {
	if root == "" {
		root = DefaultRoot
	}
	return &Service{store: c, root: root, now: time.Now, logger: logger}
}

// WithClock replaces the time source used to stamp new notices.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Records returns every notice in key order (creation order) with its key
// set as the id field. The key wins over any stored id.
func (s *Service) Records(ctx context.Context) ([]model.Notice, error) {
	nodes, err := s.store.Children(ctx, s.root)
	if err != nil {
		return nil, fmt.Errorf("read notices: %w", err)
	}

	notices := make([]model.Notice, 0, len(nodes))
	for _, n := range nodes {
		notice := model.Notice(n.Data).Clone()
		notice[model.FieldID] = n.Key
		notices = append(notices, notice)
	}
	return notices, nil
}

// List returns every notice, newest timestamp first. Notices without a
// string timestamp sort last; ties keep creation order.
func (s *Service) List(ctx context.Context) ([]model.Notice, error) {
	notices, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notices, func(i, j int) bool {
		return notices[i].Timestamp() > notices[j].Timestamp()
	})
	return notices, nil
}

// Create stores a new notice and returns its id. The server stamps
// timestamp and views, overriding caller values.
func (s *Service) Create(ctx context.Context, fields map[string]any) (string, error) {
	rec := store.Record{}
	for k, v := range fields {
		rec[k] = v
	}
	delete(rec, model.FieldID)
	rec[model.FieldTimestamp] = s.now().Format(model.TimestampLayout)
	rec[model.FieldViews] = 0

	id, err := s.store.Push(ctx, s.root, rec)
	if err != nil {
		return "", fmt.Errorf("create notice: %w", err)
	}
	s.logger.Info("notice created", "id", id)
	return id, nil
}

// Update merges fields into the notice. A missing notice is created; a nil
// field value removes that field. A notice left with no fields is removed.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) error {
	if !store.ValidKey(id) {
		return fmt.Errorf("%w: notice id %q", store.ErrInvalidPath, id)
	}

	rec := store.Record{}
	for k, v := range fields {
		rec[k] = v
	}
	delete(rec, model.FieldID)

	if err := s.store.Update(ctx, store.Join(s.root, id), rec); err != nil {
		return fmt.Errorf("update notice %s: %w", id, err)
	}
	s.logger.Info("notice updated", "id", id)
	return nil
}

// Delete removes the notice. Deleting a missing notice succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !store.ValidKey(id) {
		return fmt.Errorf("%w: notice id %q", store.ErrInvalidPath, id)
	}
	if err := s.store.Delete(ctx, store.Join(s.root, id)); err != nil {
		return fmt.Errorf("delete notice %s: %w", id, err)
	}
	s.logger.Info("notice deleted", "id", id)
	return nil
}
