package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/solana-archiver/block-syncer/db"
	"github.com/solana-archiver/block-syncer/logging"
	"github.com/solana-archiver/block-syncer/types"
)

const (
	maxProcessAttempts = 3
	retryBackoff       = 1 * time.Second
)

// ChainClient is the read-only RPC surface the syncer consumes.
type ChainClient interface {
	GetBlock(ctx context.Context, slot uint64) (*types.RawBlock, error)
	GetSlot(ctx context.Context) (uint64, error)
}

// Worker ingests a single slot: fetch, normalize, persist, verify. Workers
// share nothing but the store, so any number of them can run in parallel.
type Worker struct {
	blockDao db.BlockDao
	client   ChainClient
}

func NewWorker(blockDao db.BlockDao, client ChainClient) *Worker {
	return &Worker{
		blockDao: blockDao,
		client:   client,
	}
}

// ProcessSlot runs the fetch/normalize/persist/verify sequence for one slot
// with a bounded retry loop. It returns true only when the block is persisted
// and read back successfully. An unavailable or malformed block returns false
// without retrying: the endpoint reporting "no data" is not going to change
// within this invocation. Storage races and verification misses restart the
// whole sequence after a short backoff.
func (w *Worker) ProcessSlot(slot uint64, timeout time.Duration) bool {
	start := time.Now()
	for attempt := 1; attempt <= maxProcessAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		raw, err := w.client.GetBlock(ctx, slot)
		cancel()
		if err != nil {
			logging.Logger.Infof("no data for slot %d, attempt=%d, err=%s", slot, attempt, err.Error())
			return false
		}

		block, err := ToNormalizedBlock(slot, raw)
		if err != nil {
			logging.Logger.Infof("slot %d failed normalization, err=%s", slot, err.Error())
			return false
		}

		if err = w.blockDao.SaveBlock(block); err != nil {
			if errors.Is(err, db.ErrConsistency) || errors.Is(err, db.ErrAccountResolution) {
				logging.Logger.Errorf("consistency violation persisting slot %d, err=%s", slot, err.Error())
				return false
			}
			if db.IsRetryable(err) {
				logging.Logger.Errorf("retryable error persisting slot %d, attempt=%d, err=%s", slot, attempt, err.Error())
				time.Sleep(retryBackoff)
				continue
			}
			logging.Logger.Errorf("failed to persist slot %d, err=%s", slot, err.Error())
			return false
		}

		persisted, err := w.blockDao.GetBlock(slot)
		if err != nil || persisted.Id == 0 {
			logging.Logger.Errorf("slot %d not found after save, attempt=%d", slot, attempt)
			time.Sleep(retryBackoff)
			continue
		}

		logging.Logger.Infof("processed slot %d with %d transactions in %s, attempt=%d",
			slot, len(block.Transactions), time.Since(start), attempt)
		return true
	}
	logging.Logger.Errorf("failed to process slot %d after %d attempts", slot, maxProcessAttempts)
	return false
}
