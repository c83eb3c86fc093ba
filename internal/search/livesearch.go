// internal/search/livesearch.go
package search

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/models"
	"lawdesk-api/pkg/debounce"
)

// Alerter surfaces transport failures to the user as a toast.
type Alerter interface {
	Error(message string)
}

// ResultsFunc receives the results of the latest query. It is called
// with an empty slice when the query is cleared or too short.
type ResultsFunc func(query string, results []models.SearchResult)

// LiveSearchConfig tunes one live-search field.
type LiveSearchConfig struct {
	MinQueryLength int
	MaxResults     int
	Debounce       time.Duration
	Timeout        time.Duration
}

// LiveSearch drives one type-ahead search field: it debounces input,
// enforces the minimum query length, and drops stale responses.
//
// Each dispatched request carries a sequence token. A response is
// delivered only while its token is still the newest one issued, so a
// slow early response can never overwrite the results of a later
// query.
type LiveSearch struct {
	searcher  Searcher
	cfg       LiveSearchConfig
	onResults ResultsFunc
	alerter   Alerter
	log       logger.Logger

	debouncer *debounce.Debouncer
	seq       atomic.Uint64

	// deliverMu serializes onResults calls; lastDelivered makes the
	// staleness check and the delivery one atomic step.
	deliverMu     sync.Mutex
	lastDelivered uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func NewLiveSearch(searcher Searcher, cfg LiveSearchConfig, onResults ResultsFunc, alerter Alerter, log logger.Logger) *LiveSearch {
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = 2
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	ls := &LiveSearch{
		searcher:  searcher,
		cfg:       cfg,
		onResults: onResults,
		alerter:   alerter,
		log:       log,
	}
	ls.debouncer = debounce.New(cfg.Debounce, func(args ...interface{}) {
		ls.dispatch(args[0].(string))
	})
	return ls
}

// QueryChanged feeds one keystroke's worth of input. Short queries
// clear the results immediately and cancel any pending dispatch.
func (ls *LiveSearch) QueryChanged(text string) {
	ls.mu.Lock()
	if ls.closed {
		ls.mu.Unlock()
		return
	}
	ls.mu.Unlock()

	query := strings.TrimSpace(text)
	if len([]rune(query)) < ls.cfg.MinQueryLength {
		// Invalidate in-flight responses as well.
		token := ls.seq.Add(1)
		ls.debouncer.Cancel()
		ls.deliver(token, query, []models.SearchResult{})
		return
	}

	ls.debouncer.Call(query)
}

func (ls *LiveSearch) dispatch(query string) {
	token := ls.seq.Add(1)

	ls.mu.Lock()
	if ls.closed {
		ls.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ls.cfg.Timeout)
	ls.cancel = cancel
	ls.wg.Add(1)
	ls.mu.Unlock()

	go func() {
		defer ls.wg.Done()
		defer cancel()

		results, err := ls.searcher.Search(ctx, query, ls.cfg.MaxResults)

		// A newer query was issued while this one was in flight.
		if ls.seq.Load() != token {
			return
		}

		if err != nil {
			ls.log.Warn("live search failed", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
			if ls.alerter != nil {
				ls.alerter.Error("Erro ao buscar. Tente novamente.")
			}
			return
		}

		if results == nil {
			results = []models.SearchResult{}
		}
		ls.deliver(token, query, results)
	}()
}

// deliver hands results to the callback unless a newer token has been
// issued or delivered. The check and the callback run under the same
// lock, so a stale response can never render after a newer one.
func (ls *LiveSearch) deliver(token uint64, query string, results []models.SearchResult) {
	ls.deliverMu.Lock()
	defer ls.deliverMu.Unlock()

	if ls.seq.Load() != token || token <= ls.lastDelivered {
		return
	}
	ls.lastDelivered = token
	ls.onResults(query, results)
}

// Close stops the debouncer and cancels any in-flight request. It is
// safe to call more than once.
func (ls *LiveSearch) Close() {
	ls.mu.Lock()
	if ls.closed {
		ls.mu.Unlock()
		return
	}
	ls.closed = true
	cancel := ls.cancel
	ls.mu.Unlock()

	ls.seq.Add(1)
	ls.debouncer.Stop()
	if cancel != nil {
		cancel()
	}
	ls.wg.Wait()
}
