package scanner

import (
	"context"
	"log"
	"sync"
	"time"
)

// Intervals controls the sweep cadences. Zero values fall back to the
// defaults below.
type Intervals struct {
	MembershipExpiry   time.Duration
	SubscriptionExpiry time.Duration
	RenewalWarning     time.Duration
	ReportCheck        time.Duration
}

func (i Intervals) withDefaults() Intervals {
	if i.MembershipExpiry <= 0 {
		i.MembershipExpiry = 30 * time.Minute
	}
	if i.SubscriptionExpiry <= 0 {
		i.SubscriptionExpiry = time.Hour
	}
	if i.RenewalWarning <= 0 {
		i.RenewalWarning = 12 * time.Hour
	}
	if i.ReportCheck <= 0 {
		i.ReportCheck = time.Hour
	}
	return i
}

// Manager runs the Sweeper's passes on tickers and shuts them down
// cleanly on Stop.
type Manager struct {
	sweeper   *Sweeper
	intervals Intervals

	membershipTicker   *time.Ticker
	subscriptionTicker *time.Ticker
	warningTicker      *time.Ticker
	reportTicker       *time.Ticker

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	lastReportDay string
}

func NewManager(sweeper *Sweeper, intervals Intervals) *Manager {
	return &Manager{
		sweeper:   sweeper,
		intervals: intervals.withDefaults(),
	}
}

func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	m.stopCh = make(chan struct{})
	m.running = true
	log.Println("[Scanner] Starting background sweeps")

	m.membershipTicker = time.NewTicker(m.intervals.MembershipExpiry)
	m.wg.Add(1)
	go m.loop(m.membershipTicker, "membership expiry", m.sweeper.ExpireMemberships)

	m.subscriptionTicker = time.NewTicker(m.intervals.SubscriptionExpiry)
	m.wg.Add(1)
	go m.loop(m.subscriptionTicker, "subscription expiry", m.sweeper.ExpireSubscriptions)

	m.warningTicker = time.NewTicker(m.intervals.RenewalWarning)
	m.wg.Add(1)
	go m.loop(m.warningTicker, "renewal warning", m.sweeper.WarnExpiringSubscriptions)

	m.reportTicker = time.NewTicker(m.intervals.ReportCheck)
	m.wg.Add(1)
	go m.reportLoop()

	log.Println("[Scanner] Started")
}

func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Println("[Scanner] Stopping background sweeps...")

	m.membershipTicker.Stop()
	m.subscriptionTicker.Stop()
	m.warningTicker.Stop()
	m.reportTicker.Stop()

	close(m.stopCh)
	m.running = false
	m.wg.Wait()

	log.Println("[Scanner] Stopped")
}

func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) loop(ticker *time.Ticker, name string, sweep func(context.Context) error) {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Printf("[Scanner] %s worker stopping", name)
			return
		case <-ticker.C:
			if err := sweep(context.Background()); err != nil {
				log.Printf("[Scanner] %s sweep error: %v", name, err)
			}
		}
	}
}

func (m *Manager) reportLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Println("[Scanner] report worker stopping")
			return
		case <-m.reportTicker.C:
			now := time.Now().UTC()
			day := now.Format("2006-01-02")
			if day == m.lastReportDay {
				continue
			}
			fired, err := m.sweeper.MaybeSendWeeklyReports(context.Background(), now)
			if err != nil {
				log.Printf("[Scanner] weekly report error: %v", err)
			}
			if fired {
				m.lastReportDay = day
			}
		}
	}
}
