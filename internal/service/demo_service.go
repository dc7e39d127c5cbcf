package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type DemoStore interface {
	Upsert(ctx context.Context, demo models.Demo) error
	GetByShareCode(ctx context.Context, shareCode string) (models.Demo, error)
	List(ctx context.Context) ([]models.Demo, error)
}

// BlobStore is the object-storage slice the demo archive needs.
type BlobStore interface {
	Put(ctx context.Context, bucket string, key string, reader io.Reader, size int64) error
	Get(ctx context.Context, bucket string, key string) (io.ReadCloser, error)
	DemoBucket() string
}

// CS2 share codes look like CSGO-xxxxx-xxxxx-xxxxx-xxxxx-xxxxx.
var shareCodePattern = regexp.MustCompile(`^CSGO(-[ABCDEFGHJKLMNOPQRSTUVWXYZabcdefhijkmnopqrstuvwxyz23456789]{5}){5}$`)

// DemoService archives raw CS2 match demos. Parsing demo contents is out of
// scope; the archive only stores and serves the bytes.
type DemoService struct {
	demos DemoStore
	blobs BlobStore
	roles RoleStore
	log   zerolog.Logger
}

func NewDemoService(demos DemoStore, blobs BlobStore, roles RoleStore, log zerolog.Logger) *DemoService {
	return &DemoService{demos: demos, blobs: blobs, roles: roles, log: log}
}

// Archive stores a demo file under its share code. Editor and above only.
func (s *DemoService) Archive(ctx context.Context, actor models.User, shareCode string, reader io.Reader, size int64) (models.Demo, error) {
	if !shareCodePattern.MatchString(shareCode) {
		return models.Demo{}, fmt.Errorf("%w: malformed share code", ErrValidation)
	}

	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return models.Demo{}, err
	}
	if authz.Level(role) < authz.Level(authz.RoleEditor) {
		return models.Demo{}, fmt.Errorf("%w: editor role required", ErrForbidden)
	}

	demo := models.Demo{
		ID:        ids.New(),
		ShareCode: shareCode,
		Bucket:    s.blobs.DemoBucket(),
		ObjectKey: "demos/" + shareCode + ".dem",
		SizeBytes: size,
	}

	if err := s.blobs.Put(ctx, demo.Bucket, demo.ObjectKey, reader, size); err != nil {
		return models.Demo{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if err := s.demos.Upsert(ctx, demo); err != nil {
		return models.Demo{}, fmt.Errorf("record demo: %w", err)
	}

	s.log.Info().
		Str("share_code", shareCode).
		Int64("size_bytes", size).
		Msg("demo archived")
	return demo, nil
}

// List returns archived demo metadata for any ladder role at viewer+.
func (s *DemoService) List(ctx context.Context, actor models.User) ([]models.Demo, error) {
	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return nil, err
	}
	if authz.Level(role) < authz.Level(authz.RoleViewer) {
		return nil, fmt.Errorf("%w: viewer role required", ErrForbidden)
	}

	demos, err := s.demos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list demos: %w", err)
	}
	if demos == nil {
		demos = []models.Demo{}
	}
	return demos, nil
}

// Open streams an archived demo's bytes.
func (s *DemoService) Open(ctx context.Context, actor models.User, shareCode string) (models.Demo, io.ReadCloser, error) {
	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return models.Demo{}, nil, err
	}
	if authz.Level(role) < authz.Level(authz.RoleViewer) {
		return models.Demo{}, nil, fmt.Errorf("%w: viewer role required", ErrForbidden)
	}

	demo, err := s.demos.GetByShareCode(ctx, shareCode)
	if err != nil {
		if errors.Is(err, repository.ErrDemoNotFound) {
			return models.Demo{}, nil, fmt.Errorf("%w: demo %s", ErrNotFound, shareCode)
		}
		return models.Demo{}, nil, fmt.Errorf("load demo: %w", err)
	}

	body, err := s.blobs.Get(ctx, demo.Bucket, demo.ObjectKey)
	if err != nil {
		return models.Demo{}, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return demo, body, nil
}
