package generation

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/superleo/marketingops/backend/internal/events"
)

func TestWalletReserve(t *testing.T) {
	w := NewWallet(1, nil)
	if err := w.Reserve(0.25); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if got := w.Balance(); got != 0.75 {
		t.Fatalf("Balance() = %v, want 0.75", got)
	}
	if err := w.Reserve(0.76); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Reserve() error = %v, want ErrInsufficientFunds", err)
	}
	if got := w.Balance(); got != 0.75 {
		t.Fatalf("Balance() after rejected reserve = %v", got)
	}
	w.Refund(0.25)
	if got := w.Balance(); got != 1 {
		t.Fatalf("Balance() after refund = %v, want 1", got)
	}
}

func TestWalletConcurrentReservesNeverOverspend(t *testing.T) {
	w := NewWallet(1, nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.Reserve(0.1) == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if ok != 10 || w.Balance() != 0 {
		t.Fatalf("%d reserves succeeded, balance %v; want 10 and 0", ok, w.Balance())
	}
}

func TestWalletPublishesBalance(t *testing.T) {
	bus := events.NewBus(4)
	ch, cancel := bus.Subscribe()
	defer cancel()

	w := NewWallet(2, bus)
	_ = w.Reserve(0.5)

	select {
	case ev := <-ch:
		if ev.Type != events.BalanceChanged {
			t.Fatalf("event type = %s", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("no balance event")
	}
}
