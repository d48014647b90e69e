package store

import (
	"encoding/json"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/julinemart/pricer/internal/kv"
	"github.com/julinemart/pricer/internal/pricing"
)

// Persisted keys in the key-value store. The names are kept from the
// original installs so existing data files keep loading.
const (
	itemsKey    = "jm_items"
	settingsKey = "jm_settings"
	historyKey  = "jm_history"
)

// Workspace is the single-user pricing session: items, rates, and batch
// history behind one lock. All mutators hold the lock for the full
// mutate-recompute-persist sequence, so settings and derived item fields are
// never observable in an inconsistent state.
type Workspace struct {
	mu       sync.Mutex
	items    []Item
	settings pricing.Rates
	history  []Batch
	seq      sequence

	store kv.Store
	log   *zap.Logger
}

func New(store kv.Store, log *zap.Logger) *Workspace {
	return &Workspace{
		settings: pricing.DefaultRates(),
		store:    store,
		log:      log,
	}
}

// Load reads the three persisted entries. Malformed entries are logged and
// fall back to an empty collection or default settings; only an adapter
// failure is fatal. The id sequence is seeded from every id found in the
// restored state.
func (w *Workspace) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.loadItems(); err != nil {
		return err
	}
	if err := w.loadSettings(); err != nil {
		return err
	}
	if err := w.loadHistory(); err != nil {
		return err
	}

	for _, it := range w.items {
		w.seq.observe(it.ID)
	}
	for _, b := range w.history {
		w.seq.observe(b.ID)
		for _, it := range b.Items {
			w.seq.observe(it.ID)
		}
	}

	return nil
}

func (w *Workspace) loadItems() error {
	data, ok, err := w.store.Get(itemsKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		w.log.Warn("discarding malformed persisted items", zap.Error(err))
		return nil
	}
	w.items = items
	return nil
}

func (w *Workspace) loadSettings() error {
	data, ok, err := w.store.Get(settingsKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var saved pricing.Rates
	if err := json.Unmarshal(data, &saved); err != nil {
		w.log.Warn("discarding malformed persisted settings", zap.Error(err))
		return nil
	}
	// Zero fields fall back per-field, matching how earlier installs
	// persisted partially filled settings.
	defaults := pricing.DefaultRates()
	if saved.ExchangeRate == 0 {
		saved.ExchangeRate = defaults.ExchangeRate
	}
	if saved.MarkupPercent == 0 {
		saved.MarkupPercent = defaults.MarkupPercent
	}
	if saved.ProfitMarginPercent == 0 {
		saved.ProfitMarginPercent = defaults.ProfitMarginPercent
	}
	w.settings = saved
	return nil
}

func (w *Workspace) loadHistory() error {
	data, ok, err := w.store.Get(historyKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var history []Batch
	if err := json.Unmarshal(data, &history); err != nil {
		w.log.Warn("discarding malformed persisted history", zap.Error(err))
		return nil
	}
	w.history = history
	return nil
}

// persist writes one entry. Persistence is best-effort: the in-memory model
// stays the source of truth for the session, so a write failure is logged
// and never rolled back.
func (w *Workspace) persist(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		w.log.Warn("marshal state for persistence", zap.String("key", key), zap.Error(err))
		return
	}
	if err := w.store.Put(key, data); err != nil {
		w.log.Warn("persist state", zap.String("key", key), zap.Error(err))
	}
}

// Settings returns the current rates.
func (w *Workspace) Settings() pricing.Rates {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// SetExchangeRate updates the exchange rate, recomputes every item, and
// persists both entries before returning. Non-finite input is coerced to 0.
func (w *Workspace) SetExchangeRate(value float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings.ExchangeRate = finiteOrZero(value)
	w.commitSettings()
}

// SetMarkupPercent updates the shipping markup; same semantics as
// SetExchangeRate.
func (w *Workspace) SetMarkupPercent(value float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings.MarkupPercent = finiteOrZero(value)
	w.commitSettings()
}

// SetProfitMargin updates the target margin; same semantics as
// SetExchangeRate. Values of 100 and above are stored as-is and flow into
// the engine unguarded.
func (w *Workspace) SetProfitMargin(value float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings.ProfitMarginPercent = finiteOrZero(value)
	w.commitSettings()
}

// commitSettings is the single commit point of any settings mutation: the
// recompute runs before the lock is released, so no caller can observe items
// derived under stale rates. Callers must hold w.mu.
func (w *Workspace) commitSettings() {
	w.recomputeAllLocked()
	w.persist(settingsKey, w.settings)
	w.persist(itemsKey, w.itemsOrEmpty())
}

func finiteOrZero(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// itemsOrEmpty keeps the persisted value a JSON array even when the slice is
// nil.
func (w *Workspace) itemsOrEmpty() []Item {
	if w.items == nil {
		return []Item{}
	}
	return w.items
}

func (w *Workspace) historyOrEmpty() []Batch {
	if w.history == nil {
		return []Batch{}
	}
	return w.history
}
