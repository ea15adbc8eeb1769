// Package history maintains the append-only ledger of analysis records
// and provides filtering and tabular export over it.
package history

import (
	"strconv"
	"sync"
	"time"

	"stockpulse/internal/models"
)

// Ledger is the ordered collection of historical analysis records.
// Canonical order is most-recent-first. Entries are never removed or
// reordered; the only permitted mutation after creation is marking a
// record's notification as sent.
type Ledger struct {
	mu     sync.RWMutex
	items  []*models.AlertHistoryItem
	lastID int64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// NewLedgerFromItems creates a ledger seeded with persisted items, assumed
// to already be in canonical most-recent-first order.
func NewLedgerFromItems(items []*models.AlertHistoryItem) *Ledger {
	l := &Ledger{items: items}
	for _, it := range items {
		if id, err := strconv.ParseInt(it.ID, 10, 64); err == nil && id > l.lastID {
			l.lastID = id
		}
	}
	return l
}

// Append constructs a new history item for result and prepends it to the
// ledger. The id is derived from the creation time and bumped on
// collision so ids stay unique and monotonic within the process.
func (l *Ledger) Append(result models.AnalysisResult) *models.AlertHistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	item := &models.AlertHistoryItem{
		ID:        strconv.FormatInt(id, 10),
		Date:      now,
		Analysis:  result,
		EmailSent: false,
	}
	l.items = append([]*models.AlertHistoryItem{item}, l.items...)
	return item
}

// MarkNotified updates the first item in canonical order that contains a
// stock with the exact ticker and has not been notified yet, setting
// EmailSent and EmailRecipient. It returns the updated item, or nil when
// no such item exists; the miss is a silent no-op, not an error.
//
// Matching is by ticker rather than item id, so a ticker that appears
// unsent in two pending results resolves to the most recent one. Callers
// that track the owning item can use MarkNotifiedByID instead.
func (l *Ledger) MarkNotified(ticker, recipient string) *models.AlertHistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if item.EmailSent {
			continue
		}
		if item.Analysis.HasTicker(ticker) {
			item.EmailSent = true
			item.EmailRecipient = recipient
			return item
		}
	}
	return nil
}

// MarkNotifiedByID updates the item with the given id when it has not been
// notified yet. Returns the updated item or nil.
func (l *Ledger) MarkNotifiedByID(id, recipient string) *models.AlertHistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if item.ID == id && !item.EmailSent {
			item.EmailSent = true
			item.EmailRecipient = recipient
			return item
		}
	}
	return nil
}

// Items returns the ledger contents in canonical order. The slice is a
// copy; the items are shared.
func (l *Ledger) Items() []*models.AlertHistoryItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*models.AlertHistoryItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of history items.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
