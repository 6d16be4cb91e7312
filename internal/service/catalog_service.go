package service

import (
	"context"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/repository"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

const (
	cacheKeyPackages = "catalog:packages"
	cacheKeySubjects = "catalog:subjects"
)

// CatalogService manages package/subject reference data. Listings are
// cached in Redis since the catalog changes rarely and the intake form
// fetches it on every load.
type CatalogService struct {
	packages repository.PackageRepository
	subjects repository.SubjectRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService constructs the service. cache may be nil.
func NewCatalogService(packages repository.PackageRepository, subjects repository.SubjectRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		packages: packages,
		subjects: subjects,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ListPackages returns all packages, from cache when fresh.
func (s *CatalogService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	var cached []domain.Package
	if s.readCache(ctx, cacheKeyPackages, &cached) {
		return cached, nil
	}
	packages, err := s.packages.List(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKeyPackages, packages)
	return packages, nil
}

// ListSubjects returns all subjects, from cache when fresh.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	var cached []domain.Subject
	if s.readCache(ctx, cacheKeySubjects, &cached) {
		return cached, nil
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKeySubjects, subjects)
	return subjects, nil
}

// CreatePackage adds a package and invalidates the listing cache.
func (s *CatalogService) CreatePackage(ctx context.Context, name, code string, subjectIDs []string) (*domain.Package, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	for _, id := range subjectIDs {
		if _, err := s.subjects.GetByID(ctx, id); err != nil {
			return nil, apperrors.NewValidationError("unknown subject", map[string]any{"subject_id": id})
		}
	}
	pkg := &domain.Package{Name: name, Code: strings.TrimSpace(code), SubjectIDs: subjectIDs}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyPackages)
	return pkg, nil
}

// UpdatePackage edits a package and invalidates the listing cache.
func (s *CatalogService) UpdatePackage(ctx context.Context, id, name, code string, subjectIDs []string) (*domain.Package, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		pkg.Name = name
	}
	if code = strings.TrimSpace(code); code != "" {
		pkg.Code = code
	}
	if subjectIDs != nil {
		pkg.SubjectIDs = subjectIDs
	}
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyPackages)
	return pkg, nil
}

// DeletePackage removes a package and invalidates the listing cache.
func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeyPackages)
	return nil
}

// CreateSubject adds a subject and invalidates the listing cache.
func (s *CatalogService) CreateSubject(ctx context.Context, name, code string) (*domain.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	subject := &domain.Subject{Name: name, Code: strings.TrimSpace(code)}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySubjects)
	return subject, nil
}

// UpdateSubject edits a subject and invalidates the listing cache.
func (s *CatalogService) UpdateSubject(ctx context.Context, id, name, code string) (*domain.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		subject.Name = name
	}
	if code = strings.TrimSpace(code); code != "" {
		subject.Code = code
	}
	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySubjects)
	return subject, nil
}

// DeleteSubject removes a subject and invalidates the listing cache.
func (s *CatalogService) DeleteSubject(ctx context.Context, id string) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeySubjects)
	return nil
}

func (s *CatalogService) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("corrupt catalog cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *CatalogService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
