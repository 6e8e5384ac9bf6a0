package ticker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snowgift/snow-gift/exchange"
)

const (
	DefaultInterval  = 15 * time.Second
	DefaultFeeRate   = 0.01
	DefaultFeeWindow = "h24"
)

var errNoPairs = errors.New("no pairs found for token")

// State is what viewers display. On a failed fetch only Err and Loading
// change, the figures keep their last good value.
type State struct {
	TokenID   string    `json:"tokenId"`
	MarketCap string    `json:"marketCap"`
	Fees      string    `json:"fees,omitempty"`
	Loading   bool      `json:"loading"`
	Err       string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeeEstimator converts traded volume into an estimated fee amount in the
// reference asset: volume[Window] * Rate / price.
type FeeEstimator struct {
	Prices *PriceCache
	Rate   float64
	Window string
}

func (f *FeeEstimator) Estimate(ctx context.Context, pair *exchange.Pair) string {
	volume, _ := pair.Volume.Window(f.Window)
	feesUSD := volume * f.Rate
	price := f.Prices.Get(ctx)
	if price <= 0 {
		return FormatSOL(0)
	}
	return FormatSOL(feesUSD / price)
}

type Poller struct {
	source    exchange.PairSource
	fees      *FeeEstimator
	interval  time.Duration
	listeners []func(State)
	now       func() time.Time

	mu    sync.Mutex // guards state and gen
	state State
	gen   uint64

	runMu  sync.Mutex // serializes Start and Stop
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithFeeEstimator(f *FeeEstimator) Option {
	return func(p *Poller) {
		p.fees = f
	}
}

// WithListener registers a callback invoked with a copy of every new state.
// Callbacks run on the polling goroutine and must not block.
func WithListener(fn func(State)) Option {
	return func(p *Poller) {
		p.listeners = append(p.listeners, fn)
	}
}

func NewPoller(source exchange.PairSource, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = p.zeroState("")
	return p
}

// Start stops any running schedule, then polls tokenID immediately and on
// every interval. A blank token shows zero values without any request.
func (p *Poller) Start(tokenID string) {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	p.stopLocked()

	tokenID = strings.TrimSpace(tokenID)
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = p.zeroState(tokenID)
	p.state.Loading = tokenID != ""
	snapshot := p.state
	p.mu.Unlock()
	p.notify(snapshot)

	if tokenID == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel, p.done = cancel, done
	logrus.Debugf("Polling market data of %s on every %v", tokenID, p.interval)
	go p.run(ctx, gen, tokenID, done)
}

// Stop cancels the schedule and waits for the polling goroutine to exit.
// Loading is cleared when the first fetch was cut short.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	p.stopLocked()

	p.mu.Lock()
	if !p.state.Loading {
		p.mu.Unlock()
		return
	}
	p.gen++
	p.state.Loading = false
	snapshot := p.state
	p.mu.Unlock()
	p.notify(snapshot)
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) run(ctx context.Context, gen uint64, tokenID string, done chan struct{}) {
	defer close(done)

	p.fetchOnce(ctx, gen, tokenID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchOnce(ctx, gen, tokenID)
		}
	}
}

func (p *Poller) fetchOnce(ctx context.Context, gen uint64, tokenID string) {
	start := time.Now()
	pairs, err := p.source.GetPairs(ctx, tokenID)
	if ctx.Err() != nil {
		// Stopped while waiting, the result belongs to nobody
		return
	}
	if err == nil && len(pairs) == 0 {
		err = errNoPairs
	}
	if err != nil {
		logrus.WithError(err).
			WithField("token", tokenID).
			WithField("elapsed", time.Since(start).String()).
			Warnf("Failed to fetch market cap from %s", p.source.GetName())
		p.update(gen, func(s *State) {
			s.Err = err.Error()
			s.Loading = false
		})
		return
	}

	mainPair, _ := SelectMainPair(pairs)
	marketCap := FormatMarketCap(CapValue(mainPair))
	var fees string
	if p.fees != nil {
		fees = p.fees.Estimate(ctx, mainPair)
	}
	logrus.Debugf("%s - %s market cap %s from %s pair %s", p.source.GetName(), tokenID, marketCap,
		mainPair.DexID, mainPair.PairAddress)

	p.update(gen, func(s *State) {
		*s = State{
			TokenID:   tokenID,
			MarketCap: marketCap,
			Fees:      fees,
			UpdatedAt: p.now(),
		}
	})
}

func (p *Poller) update(gen uint64, mutate func(*State)) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	mutate(&p.state)
	snapshot := p.state
	p.mu.Unlock()
	p.notify(snapshot)
}

func (p *Poller) notify(s State) {
	for _, fn := range p.listeners {
		fn(s)
	}
}

func (p *Poller) zeroState(tokenID string) State {
	s := State{TokenID: tokenID, MarketCap: FormatMarketCap(0)}
	if p.fees != nil {
		s.Fees = FormatSOL(0)
	}
	return s
}
