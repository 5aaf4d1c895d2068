// Package scheduler runs periodic maintenance for long-lived processes.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs after the US close on weekdays.
const DefaultPurgeSchedule = "0 22 * * 1-5"

// Purgeable is a cache that can be emptied in one call.
type Purgeable interface {
	Purge() int
}

type PurgerConfig struct {
	Schedule string // standard 5-field cron expression
	OnPurge  func(removed int)
}

// CachePurger empties the price cache on a cron schedule so sessions
// published after a series was fetched become resolvable.
type CachePurger struct {
	cache Purgeable
	cfg   PurgerConfig
	cron  *cron.Cron

	mu      sync.Mutex
	running bool
}

func NewCachePurger(cache Purgeable, cfg PurgerConfig) (*CachePurger, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultPurgeSchedule
	}
	p := &CachePurger{cache: cache, cfg: cfg, cron: cron.New()}
	if _, err := p.cron.AddFunc(cfg.Schedule, func() { p.PurgeNow() }); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", cfg.Schedule, err)
	}
	return p, nil
}

func (p *CachePurger) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		log.Warn().Msg("scheduler: cache purger already running")
		return
	}
	p.cron.Start()
	p.running = true
	log.Info().Str("schedule", p.cfg.Schedule).Msg("scheduler: cache purger started")
}

// Stop halts the schedule and waits for a running purge to finish.
func (p *CachePurger) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	<-p.cron.Stop().Done()
	p.running = false
	log.Info().Msg("scheduler: cache purger stopped")
}

func (p *CachePurger) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// PurgeNow empties the cache outside the normal schedule.
func (p *CachePurger) PurgeNow() int {
	n := p.cache.Purge()
	log.Info().Int("removed", n).Msg("scheduler: price cache purged")
	if p.cfg.OnPurge != nil {
		p.cfg.OnPurge(n)
	}
	return n
}
