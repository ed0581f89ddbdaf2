package recordindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oipwg/recordindex/internal/db"
	dbRedis "github.com/oipwg/recordindex/internal/db/redis"
	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/page"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	recordrepo "github.com/oipwg/recordindex/internal/repository/records"
	healthuc "github.com/oipwg/recordindex/internal/usecase/health"
	recorduc "github.com/oipwg/recordindex/internal/usecase/records"
)

const (
	defaultReadinessTimeout  = 10 * time.Second
	defaultResolutionTTL     = 5 * time.Minute
	defaultResolutionCleanup = 10 * time.Minute
)

// Внутренние интерфейсы для подмены в тестах.
type recordsUseCase interface {
	GetRecords(ctx context.Context, req *request.Request, viewer access.Viewer) (page.Page, error)
	GetRecord(ctx context.Context, target string, viewer access.Viewer) (record.Record, error)
	Forget(ctx context.Context, target string, viewer access.Viewer) error
}

type recordIndexer interface {
	Index(ctx context.Context, doc recordrepo.RecordDoc) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the embedded record index entry point.
type Client struct {
	store     db.Store
	recordSvc recordsUseCase
	indexer   recordIndexer
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database. The provided context
// is used for the initial readiness check and index bootstrap.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		resolutionTTL:     defaultResolutionTTL,
		resolutionCleanup: defaultResolutionCleanup,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("recordindex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("recordindex: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("recordindex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	repo := recordrepo.New(store)
	if err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("recordindex: ensure index: %w", err)
	}

	resolver := recordrepo.NewNameResolver(repo, cfg.resolutionTTL, cfg.resolutionCleanup)
	recordSvc := recorduc.New(repo, resolver)
	healthSvc := healthuc.New(store, store, recordrepo.IndexName)

	return &Client{
		store:     store,
		recordSvc: recordSvc,
		indexer:   repo,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Records returns the record query and ingestion service.
func (c *Client) Records() *RecordService {
	return &RecordService{
		svc:     c.recordSvc,
		indexer: c.indexer,
		obs:     c.obs,
	}
}
