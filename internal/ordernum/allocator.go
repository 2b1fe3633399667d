package ordernum

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ashendes/pos-terminal/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Allocator hands out short sequential display numbers ("001", "002", ...)
// that are independent of server order ids and restart every day.
type Allocator struct {
	mu        sync.Mutex
	store     Store
	resetHour int
	now       func() time.Time
}

// NewAllocator creates an allocator that resets at resetHour local time
func NewAllocator(store Store, resetHour int) *Allocator {
	return &Allocator{
		store:     store,
		resetHour: resetHour,
		now:       time.Now,
	}
}

func format(n int) string {
	return fmt.Sprintf("%03d", n)
}

// Peek returns the number the next order would get without consuming it.
// A pending daily reset is reported as 001 but left for the next write.
func (a *Allocator) Peek(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if a.due(state) {
		return format(1), nil
	}
	return format(state.Counter + 1), nil
}

// Lookup returns the number already assigned to a server order id without
// allocating one.
func (a *Allocator) Lookup(ctx context.Context, orderID int64) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		return "", false, err
	}
	if a.due(state) {
		return "", false, nil
	}
	number, ok := state.Mapping[strconv.FormatInt(orderID, 10)]
	return number, ok, nil
}

// Next consumes and returns a number not tied to any order
func (a *Allocator) Next(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var number string
	_, err := a.update(ctx, false, func(state *State) {
		state.Counter++
		number = format(state.Counter)
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// Assign returns the number for a server order id, allocating one the
// first time the id is seen.
func (a *Allocator) Assign(ctx context.Context, orderID int64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := strconv.FormatInt(orderID, 10)
	state, err := a.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if number, ok := state.Mapping[key]; ok && !a.due(state) {
		return number, nil
	}

	var (
		number    string
		allocated bool
	)
	_, err = a.update(ctx, false, func(state *State) {
		if existing, ok := state.Mapping[key]; ok {
			number, allocated = existing, false
			return
		}
		state.Counter++
		number, allocated = format(state.Counter), true
		state.Mapping[key] = number
	})
	if err != nil {
		return "", err
	}

	if allocated {
		log.WithFields(log.Fields{
			"order_id":       orderID,
			"display_number": number,
		}).Debug("Display number assigned")
	}
	return number, nil
}

// Reset starts numbering over from 001
func (a *Allocator) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.update(ctx, true, nil)
	return err
}

// CheckDailyReset resets once per day at or after the reset hour. It
// reports whether a reset happened.
func (a *Allocator) CheckDailyReset(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if !a.due(state) {
		return false, nil
	}
	return a.update(ctx, false, nil)
}

// Run checks for the daily reset immediately and then every interval until ctx is done
func (a *Allocator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	check := func() {
		if _, err := a.CheckDailyReset(ctx); err != nil {
			log.WithError(err).Warn("Display number reset check failed")
		}
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// due reports whether state predates today's reset
func (a *Allocator) due(state State) bool {
	now := a.now()
	return state.LastResetDate != now.Format(dateLayout) && now.Hour() >= a.resetHour
}

// update applies any due reset and then fn in one store update. It
// reports whether the committed update included a reset.
func (a *Allocator) update(ctx context.Context, force bool, fn func(*State)) (bool, error) {
	var reset bool
	err := a.store.Update(ctx, func(state *State) error {
		reset = force || a.due(*state)
		if reset {
			*state = State{
				Mapping:       map[string]string{},
				LastResetDate: a.now().Format(dateLayout),
			}
		}
		if state.Mapping == nil {
			state.Mapping = map[string]string{}
		}
		if fn != nil {
			fn(state)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if reset {
		metrics.DisplayNumberResets.Inc()
		log.WithField("date", a.now().Format(dateLayout)).Info("Display number counter reset, next order is #001")
	}
	return reset, nil
}
