package commands

import "sync"

// CampaignLocks serializes state-changing work per campaign id. Different
// campaigns proceed fully in parallel; two verification attempts for the
// same campaign take turns, and the loser observes the updated status.
type CampaignLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCampaignLocks() *CampaignLocks {
	return &CampaignLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *CampaignLocks) Lock(campaignID string) func() {
	c.mu.Lock()
	lock, ok := c.locks[campaignID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[campaignID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
