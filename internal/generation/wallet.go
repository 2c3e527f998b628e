package generation

import (
	"fmt"
	"math"
	"sync"

	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/metrics"
)

// DefaultBalance is the starting balance of a fresh wallet.
const DefaultBalance = 1250.00

// Wallet is the generation balance. It never goes below zero.
type Wallet struct {
	mu      sync.Mutex
	balance float64
	events  events.Publisher
}

func NewWallet(balance float64, pub events.Publisher) *Wallet {
	if pub == nil {
		pub = events.Discard{}
	}
	w := &Wallet{balance: balance, events: pub}
	metrics.WalletBalance.Set(balance)
	return w
}

func (w *Wallet) Balance() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Reserve deducts cost up front, failing with ErrInsufficientFunds and leaving the balance
// untouched when cost exceeds it.
func (w *Wallet) Reserve(cost float64) error {
	w.mu.Lock()
	if cost > w.balance {
		bal := w.balance
		w.mu.Unlock()
		return fmt.Errorf("cost %.3f, balance %.2f: %w", cost, bal, ErrInsufficientFunds)
	}
	w.balance = roundMills(w.balance - cost)
	bal := w.balance
	w.mu.Unlock()
	w.changed(bal)
	return nil
}

// Refund returns a reservation.
func (w *Wallet) Refund(cost float64) {
	w.mu.Lock()
	w.balance = roundMills(w.balance + cost)
	bal := w.balance
	w.mu.Unlock()
	w.changed(bal)
}

func (w *Wallet) changed(balance float64) {
	metrics.WalletBalance.Set(balance)
	w.events.Publish(events.Event{Type: events.BalanceChanged, Data: map[string]float64{"balance": balance}})
}

// costs go down to a tenth of a cent
func roundMills(v float64) float64 {
	return math.Round(v*1000) / 1000
}
