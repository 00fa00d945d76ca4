package service

import (
	"context"
	"errors"

	"github.com/solana-archiver/block-syncer/cache"
	"github.com/solana-archiver/block-syncer/config"
	"github.com/solana-archiver/block-syncer/db"
	"github.com/solana-archiver/block-syncer/entity"
)

// ChainReader is the slice of the RPC surface the status endpoint consumes.
type ChainReader interface {
	GetSlot(ctx context.Context) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (string, error)
}

// Query is the read-only surface consumed by reporting and bot front ends.
// All writes happen through the ingestion path only.
type Query interface {
	RunQuery(sql string) (*entity.QueryResult, *entity.Error)
	GetSyncStatus() (*entity.SyncStatus, *entity.Error)
}

type QueryService struct {
	blockDao     db.BlockDao
	chainReader  ChainReader
	cacheService cache.Cache
	config       *config.Config
}

func NewQueryService(blockDao db.BlockDao, chainReader ChainReader, cacheService cache.Cache, config *config.Config) Query {
	return &QueryService{
		blockDao:     blockDao,
		chainReader:  chainReader,
		cacheService: cacheService,
		config:       config,
	}
}

func (q *QueryService) RunQuery(sql string) (*entity.QueryResult, *entity.Error) {
	if sql == "" {
		return nil, BadRequestWithError(errors.New("empty query"))
	}
	if cached, found := q.cacheService.Get(sql); found {
		return cached.(*entity.QueryResult), nil
	}
	result, err := q.blockDao.RunQuery(sql)
	if err != nil {
		return nil, BadRequestWithError(err)
	}
	q.cacheService.Set(sql, result)
	return result, nil
}

func (q *QueryService) GetSyncStatus() (*entity.SyncStatus, *entity.Error) {
	frontier, err := q.blockDao.GetHighestSlot()
	if err != nil {
		return nil, InternalErrorWithError(err)
	}
	counts, err := q.blockDao.TableCounts()
	if err != nil {
		return nil, InternalErrorWithError(err)
	}

	status := &entity.SyncStatus{
		Frontier:    frontier,
		TableCounts: counts,
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.config.SyncerConfig.GetRPCTimeout())
	defer cancel()
	if head, err := q.chainReader.GetSlot(ctx); err == nil {
		status.ChainHead = head
	}
	if blockhash, err := q.chainReader.GetLatestBlockhash(ctx); err == nil {
		status.LatestBlockhash = blockhash
	}
	return status, nil
}
