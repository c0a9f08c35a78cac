package service

import (
	"bemestar/internal/catalog"
	"bemestar/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoCatalogStore  = errors.New("no catalog store configured")
	ErrCatalogNotFound = errors.New("catalog not found")
)

// CatalogSummary describes a stored questionnaire without its questions.
type CatalogSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	SchemaVersion string    `json:"schemaVersion"`
	Questions     int       `json:"questions"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CatalogService resolves and publishes questionnaires.
type CatalogService struct {
	repo repository.CatalogRepo
}

// NewCatalogService creates a catalog service. repo may be nil when no
// database is configured.
func NewCatalogService(repo repository.CatalogRepo) *CatalogService {
	return &CatalogService{repo: repo}
}

// Resolve picks the active catalog: a YAML file when path is set, then a
// stored document when id is set, then the embedded default.
func (s *CatalogService) Resolve(ctx context.Context, path, id string) (*catalog.Catalog, error) {
	switch {
	case path != "":
		return catalog.LoadFile(path)
	case id != "":
		return s.Get(ctx, id)
	default:
		return catalog.Default()
	}
}

// Get loads a stored questionnaire and validates it.
func (s *CatalogService) Get(ctx context.Context, id string) (*catalog.Catalog, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("catalog %s: %w", id, ErrNoCatalogStore)
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("catalog %s: %w", id, ErrCatalogNotFound)
	}
	return catalog.New(*doc)
}

// List summarises the stored questionnaires, newest first.
func (s *CatalogService) List(ctx context.Context) ([]CatalogSummary, error) {
	if s.repo == nil {
		return nil, ErrNoCatalogStore
	}
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}
	out := make([]CatalogSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, CatalogSummary{
			ID:            d.ID,
			Title:         d.Title,
			SchemaVersion: d.SchemaVersion,
			Questions:     len(d.Questions),
			CreatedAt:     d.CreatedAt,
			UpdatedAt:     d.UpdatedAt,
		})
	}
	return out, nil
}

// Publish stores a validated catalog and returns the id used. An empty id
// generates one; an id already stored is replaced, keeping its creation time.
func (s *CatalogService) Publish(ctx context.Context, c *catalog.Catalog, id string) (string, error) {
	if s.repo == nil {
		return "", ErrNoCatalogStore
	}
	doc := c.Document()
	doc.ID = id

	if id != "" {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to get catalog %s: %w", id, err)
		}
		if existing != nil {
			doc.CreatedAt = existing.CreatedAt
			if err := s.repo.Update(ctx, &doc); err != nil {
				return "", fmt.Errorf("failed to replace catalog %s: %w", id, err)
			}
			return id, nil
		}
	}

	id, err := s.repo.Create(ctx, &doc)
	if err != nil {
		return "", fmt.Errorf("failed to store catalog: %w", err)
	}
	return id, nil
}

// Remove deletes a stored questionnaire.
func (s *CatalogService) Remove(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrNoCatalogStore
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog %s: %w", id, err)
	}
	if !found {
		return fmt.Errorf("catalog %s: %w", id, ErrCatalogNotFound)
	}
	return nil
}
