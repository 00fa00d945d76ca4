package syncer

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/solana-archiver/block-syncer/logging"
)

const (
	// AutoFetchLockName is the shared lock record gating scheduled runs.
	AutoFetchLockName = "auto_fetch"

	// LockStaleness is how old a lock record must be before it is presumed
	// abandoned. A double-run past this window only costs duplicate
	// idempotent work, never corruption.
	LockStaleness = 10 * time.Minute
)

// StartSchedule installs the periodic coordinator run and starts the cron.
// Each tick is gated by the scheduler lock so overlapping runs skip instead
// of racing each other.
func (s *BlockSyncer) StartSchedule() (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	spec := fmt.Sprintf("@every %s", s.config.GetScheduleInterval())
	if _, err := c.AddFunc(spec, s.runLocked); err != nil {
		return nil, err
	}
	c.Start()
	logging.Logger.Infof("scheduled coordinator run every %s", s.config.GetScheduleInterval())
	return c, nil
}

func (s *BlockSyncer) runLocked() {
	acquired, err := s.blockDao.TryAcquireLock(AutoFetchLockName, LockStaleness)
	if err != nil {
		logging.Logger.Errorf("failed to check scheduler lock, err=%s", err.Error())
		return
	}
	if !acquired {
		logging.Logger.Infof("previous scheduled run still active, skipping")
		return
	}
	defer func() {
		if err := s.blockDao.ReleaseLock(AutoFetchLockName); err != nil {
			logging.Logger.Errorf("failed to release scheduler lock, err=%s", err.Error())
		}
	}()

	if _, _, err = s.RunOnce(s.config.GetMaxBlocks(), s.config.GetRPCTimeout()); err != nil {
		logging.Logger.Errorf("scheduled run failed, err=%s", err.Error())
	}
}
