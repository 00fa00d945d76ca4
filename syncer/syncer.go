package syncer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/solana-archiver/block-syncer/config"
	"github.com/solana-archiver/block-syncer/db"
	"github.com/solana-archiver/block-syncer/logging"
	"github.com/solana-archiver/block-syncer/metrics"
)

// BlockSyncer computes the next range of slots to ingest and fans it out to
// parallel per-slot workers. Slots are independent once fetched, so no
// ordering is required or provided across them.
type BlockSyncer struct {
	blockDao db.BlockDao
	client   ChainClient
	config   *config.SyncerConfig
	pool     pond.Pool
}

func NewBlockSyncer(blockDao db.BlockDao, client ChainClient, cfg *config.SyncerConfig) *BlockSyncer {
	return &BlockSyncer{
		blockDao: blockDao,
		client:   client,
		config:   cfg,
		pool:     pond.NewPool(cfg.GetWorkerCount()),
	}
}

// RunOnce reads the chain head and the storage frontier, then ingests up to
// maxBlocks slots starting right after the frontier. Re-running is safe: the
// per-block writes are idempotent, so reprocessing converges to the same
// state. Returns the per-slot success and failure counts.
func (s *BlockSyncer) RunOnce(maxBlocks uint64, timeout time.Duration) (uint64, uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	head, err := s.client.GetSlot(ctx)
	cancel()
	if err != nil {
		logging.Logger.Errorf("failed to get chain head slot, err=%s", err.Error())
		return 0, 0, err
	}
	metrics.ChainHeadGauge.Set(float64(head))

	frontier, err := s.blockDao.GetHighestSlot()
	if err != nil {
		logging.Logger.Errorf("failed to get storage frontier, err=%s", err.Error())
		return 0, 0, err
	}

	start := frontier + 1
	if frontier == 0 && s.config.StartSlot > start {
		start = s.config.StartSlot
	}
	end := head
	if capped := start + maxBlocks - 1; capped < end {
		end = capped
	}
	if start > end {
		logging.Logger.Infof("store is up to date, frontier=%d, head=%d", frontier, head)
		return 0, 0, nil
	}

	succeeded, failed := s.SyncRange(start, end, timeout)
	return succeeded, failed, nil
}

// SyncRange ingests every slot in [start, end], all workers running in
// parallel, and aggregates the outcome counts.
func (s *BlockSyncer) SyncRange(start, end uint64, timeout time.Duration) (uint64, uint64) {
	logging.Logger.Infof("fetching slots %d - %d", start, end)
	batchStart := time.Now()

	var succeeded, failed atomic.Uint64
	worker := NewWorker(s.blockDao, s.client)
	group := s.pool.NewGroup()
	for slot := start; slot <= end; slot++ {
		slot := slot
		group.Submit(func() {
			if worker.ProcessSlot(slot, timeout) {
				succeeded.Add(1)
				metrics.ProcessedSlotCounter.Inc()
			} else {
				failed.Add(1)
				metrics.FailedSlotCounter.Inc()
			}
		})
	}
	_ = group.Wait()

	if highest, err := s.blockDao.GetHighestSlot(); err == nil {
		metrics.SyncedSlotGauge.Set(float64(highest))
	}
	logging.Logger.Infof("finished slots %d - %d in %s, success=%d, fail=%d",
		start, end, time.Since(batchStart), succeeded.Load(), failed.Load())
	return succeeded.Load(), failed.Load()
}
