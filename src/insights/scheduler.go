package insights

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
)

// LedgerSource yields the transactions a generation run should analyze.
// *store.TransactionStore satisfies it.
type LedgerSource interface {
	Load(userID string) ([]models.Transaction, error)
}

// ProfileSource yields the profile whose planning figures anchor the analysis.
// *store.UserStore satisfies it.
type ProfileSource interface {
	FindByID(id string) (models.UserProfile, error)
}

// Scheduler debounces insight generation per user. Ledger mutations call
// NotifyChange; a generation run fires only after the ledger has been quiet
// for the debounce window, so bursts of edits cost a single delegate call.
//
// Each NotifyChange advances the user's generation counter. A run carries the
// counter value it was scheduled with and its result is discarded if the
// counter moved while the delegate was working, so a slow response for an old
// ledger state can never overwrite the result for a newer one.
type Scheduler struct {
	delegate Delegate
	txs      LedgerSource
	users    ProfileSource
	debounce time.Duration
	results  *cache.Cache

	mu      sync.Mutex
	timers  map[string]*time.Timer
	gens    map[string]uint64
	pending map[string]bool
	closed  bool
}

func NewScheduler(delegate Delegate, txs LedgerSource, users ProfileSource, debounce time.Duration) *Scheduler {
	return &Scheduler{
		delegate: delegate,
		txs:      txs,
		users:    users,
		debounce: debounce,
		results:  cache.New(cache.NoExpiration, 0),
		timers:   make(map[string]*time.Timer),
		gens:     make(map[string]uint64),
		pending:  make(map[string]bool),
	}
}

// NotifyChange records that the user's ledger changed and (re)starts the
// debounce window. Calling it again before the window elapses resets it.
func (s *Scheduler) NotifyChange(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.gens[userID]++
	gen := s.gens[userID]
	s.pending[userID] = true
	if t, ok := s.timers[userID]; ok {
		t.Stop()
	}
	s.timers[userID] = time.AfterFunc(s.debounce, func() {
		s.run(userID, gen)
	})
}

func (s *Scheduler) run(userID string, gen uint64) {
	s.mu.Lock()
	if s.closed || s.gens[userID] != gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, userID)
	s.mu.Unlock()

	result := s.generate(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.gens[userID] != gen {
		// A newer change superseded this run while the delegate was working.
		if logger.L != nil {
			logger.L.Debug("Discarding stale insight result", "userID", userID, "generation", gen)
		}
		return
	}
	s.results.Set(userID, result, cache.DefaultExpiration)
	s.pending[userID] = false
}

func (s *Scheduler) generate(userID string) []models.AIInsight {
	txs, err := s.txs.Load(userID)
	if err != nil {
		if logger.L != nil {
			logger.L.Warn("Failed to load transactions for insight run", "userID", userID, "error", err)
		}
		return FallbackInsights()
	}
	profile, err := s.users.FindByID(userID)
	if err != nil {
		if logger.L != nil {
			logger.L.Warn("Failed to load profile for insight run", "userID", userID, "error", err)
		}
		return FallbackInsights()
	}
	return s.delegate.GenerateInsights(context.Background(), txs, profile)
}

// Insights returns the latest generated list for the user and whether a
// fresher generation is still pending. Users with no generated result yet get
// the static fallback.
func (s *Scheduler) Insights(userID string) ([]models.AIInsight, bool) {
	s.mu.Lock()
	pending := s.pending[userID]
	s.mu.Unlock()

	if v, found := s.results.Get(userID); found {
		return v.([]models.AIInsight), pending
	}
	return FallbackInsights(), pending
}

// Close stops all pending timers. In-flight runs finish but their results are
// dropped.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for userID, t := range s.timers {
		t.Stop()
		delete(s.timers, userID)
	}
}
