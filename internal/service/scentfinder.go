package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/sensor"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
)

// SensorErrorMessage is shown when the sensor stream cannot be reached or breaks.
const SensorErrorMessage = "We couldn't connect to our scent sensors. Please try again."

var errFinderDisposed = errors.New("scent finder disposed")

// ScentCatalog is the part of the catalog the finder needs.
type ScentCatalog interface {
	ScentMatch(id int) (domain.Product, bool)
	Recommendations() []domain.Product
}

// FinderView is the scent finder page state.
type FinderView struct {
	State           domain.SensingState `json:"state"`
	Readings        domain.Readings     `json:"readings"`
	Progress        float64             `json:"progress"`
	Match           *domain.Product     `json:"match,omitempty"`
	Recommendations []domain.Product    `json:"recommendations,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// ScentFinder runs one client's sensing session:
// initial → sensing → processing → results.
type ScentFinder struct {
	source     sensor.Source
	catalog    ScentCatalog
	processing time.Duration
	logger     *slog.Logger

	mu          sync.Mutex
	state       domain.SensingState
	readings    domain.Readings
	progress    float64
	match       *domain.Product
	errMsg      string
	gen         uint64 // bumped on every start, reset and failure so stale callbacks are dropped
	unsubscribe func()
	timer       *time.Timer
	disposed    bool
	observers   observers[FinderView]
}

func NewScentFinder(source sensor.Source, catalog ScentCatalog, processing time.Duration, logger *slog.Logger) *ScentFinder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScentFinder{
		source:     source,
		catalog:    catalog,
		processing: processing,
		logger:     logger,
		state:      domain.SensingInitial,
	}
}

// Subscribe registers fn to receive every state change.
func (f *ScentFinder) Subscribe(fn func(FinderView)) func() {
	return f.observers.subscribe(fn)
}

// Start begins sensing. It fails while a session is already running or when
// the sensor source refuses the subscription, in which case the finder is back
// in its initial state with an error message.
func (f *ScentFinder) Start(ctx context.Context) (FinderView, error) {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return FinderView{}, errFinderDisposed
	}
	if f.state == domain.SensingActive || f.state == domain.SensingProcessing {
		v := f.viewLocked()
		f.mu.Unlock()
		return v, apperrors.Conflict("scent analysis is already running")
	}
	f.clearLocked()
	f.state = domain.SensingActive
	gen := f.gen
	f.changedLocked()
	f.mu.Unlock()

	unsub, err := f.source.Subscribe(ctx,
		func(r domain.Readings) { f.onSnapshot(gen, r) },
		func(err error) { f.onError(gen, err) },
	)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.logger.WarnContext(ctx, "sensor subscription failed", slog.String("error", err.Error()))
		if gen == f.gen {
			f.failLocked()
		}
		return f.viewLocked(), apperrors.Unavailable("SENSOR_UNAVAILABLE", SensorErrorMessage, err)
	}
	if gen != f.gen || f.state != domain.SensingActive {
		// Reset, failed or finished while subscribing.
		unsub()
		return f.viewLocked(), nil
	}
	f.unsubscribe = unsub
	return f.viewLocked(), nil
}

func (f *ScentFinder) onSnapshot(gen uint64, r domain.Readings) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen || f.state != domain.SensingActive {
		return
	}
	f.readings = r
	f.progress = r.Progress()

	if !r.Complete() {
		f.changedLocked()
		return
	}

	f.stopStreamLocked()
	f.state = domain.SensingProcessing
	if id, ok := domain.Classify(r); ok {
		if p, ok := f.catalog.ScentMatch(id); ok {
			f.match = &p
		}
	}
	outcome := "no_match"
	if f.match != nil {
		outcome = "matched"
	}
	scentSessions.WithLabelValues(outcome).Inc()
	f.changedLocked()

	f.timer = time.AfterFunc(f.processing, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if gen != f.gen || f.state != domain.SensingProcessing {
			return
		}
		f.state = domain.SensingResults
		f.timer = nil
		f.changedLocked()
	})
}

func (f *ScentFinder) onError(gen uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen || f.state != domain.SensingActive {
		return
	}
	f.logger.Warn("sensor stream failed", slog.String("error", err.Error()))
	f.failLocked()
}

// failLocked returns to the initial state with the sensor error message.
func (f *ScentFinder) failLocked() {
	f.clearLocked()
	f.errMsg = SensorErrorMessage
	scentSessions.WithLabelValues("error").Inc()
	f.changedLocked()
}

// Reset abandons any session and returns to the initial state.
func (f *ScentFinder) Reset() FinderView {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clearLocked()
	f.changedLocked()
	return f.viewLocked()
}

// Dispose stops the subscription and timers for good.
func (f *ScentFinder) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clearLocked()
	f.disposed = true
}

// clearLocked drops the stream and timer and zeroes the session.
func (f *ScentFinder) clearLocked() {
	f.gen++
	f.stopStreamLocked()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.state = domain.SensingInitial
	f.readings = domain.Readings{}
	f.progress = 0
	f.match = nil
	f.errMsg = ""
}

func (f *ScentFinder) stopStreamLocked() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

func (f *ScentFinder) changedLocked() {
	f.observers.notify(f.viewLocked())
}

// View returns the current state.
func (f *ScentFinder) View() FinderView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *ScentFinder) viewLocked() FinderView {
	v := FinderView{
		State:    f.state,
		Readings: f.readings,
		Progress: f.progress,
		Error:    f.errMsg,
	}
	if f.state == domain.SensingResults {
		if f.match != nil {
			m := *f.match
			v.Match = &m
		}
		v.Recommendations = f.catalog.Recommendations()
	}
	return v
}
