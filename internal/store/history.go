package store

import (
	"strings"
	"time"
)

// History returns a copy of the saved batches, newest first.
func (w *Workspace) History() []Batch {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copyHistoryLocked()
}

// BatchByID looks up a saved batch.
func (w *Workspace) BatchByID(id string) (Batch, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range w.history {
		if b.ID == id {
			return cloneBatch(b), true
		}
	}
	return Batch{}, false
}

// SaveBatch snapshots the current items, totals, and settings under the
// given name and prepends the batch to history. Saving an empty working set
// is a no-op. A blank name gets the "Batch <date>" default.
func (w *Workspace) SaveBatch(name string) (Batch, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.items) == 0 {
		return Batch{}, false
	}

	now := time.Now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Batch " + now.Format("2006-01-02")
	}

	settings := w.settings
	batch := Batch{
		ID:       w.seq.next(),
		Name:     name,
		Date:     now.UTC().Format(time.RFC3339),
		Items:    cloneItems(w.items),
		Totals:   ComputeTotals(w.items),
		Settings: &settings,
	}

	w.history = append([]Batch{batch}, w.history...)
	w.persist(historyKey, w.history)
	return cloneBatch(batch), true
}

// DeleteBatch removes the batch with the given id; absent ids are a no-op.
// Callers present their confirmation gate first.
func (w *Workspace) DeleteBatch(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, b := range w.history {
		if b.ID == id {
			w.history = append(w.history[:i], w.history[i+1:]...)
			w.persist(historyKey, w.historyOrEmpty())
			return true
		}
	}
	return false
}

// LoadBatch replaces the entire working set with the batch's item snapshot.
// When the batch carries settings they replace the current rates and every
// restored item is recomputed under them; a batch without settings keeps the
// frozen snapshot values untouched. Callers present their confirmation gate
// first.
func (w *Workspace) LoadBatch(id string) (Batch, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var loaded *Batch
	for i := range w.history {
		if w.history[i].ID == id {
			loaded = &w.history[i]
			break
		}
	}
	if loaded == nil {
		return Batch{}, false
	}

	w.items = cloneItems(loaded.Items)
	if loaded.Settings != nil {
		w.settings = *loaded.Settings
		w.commitSettings()
	} else {
		w.persist(itemsKey, w.itemsOrEmpty())
	}
	return cloneBatch(*loaded), true
}

// ImportBatches adopts externally supplied batches: each gets a fresh local
// id and an importedAt stamp, and all are prepended to history in their
// original order. The caller has already validated the payload shape, so
// the whole slice commits or none of it does.
func (w *Workspace) ImportBatches(batches []Batch) []Batch {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	adopted := make([]Batch, len(batches))
	for i, b := range batches {
		b.Items = cloneItems(b.Items)
		b.ID = w.seq.next()
		b.ImportedAt = now
		adopted[i] = b
	}

	w.history = append(append([]Batch{}, adopted...), w.history...)
	w.persist(historyKey, w.history)
	return adopted
}

func (w *Workspace) copyHistoryLocked() []Batch {
	copied := make([]Batch, len(w.history))
	for i, b := range w.history {
		copied[i] = cloneBatch(b)
	}
	return copied
}

func cloneBatch(b Batch) Batch {
	b.Items = cloneItems(b.Items)
	if b.Settings != nil {
		settings := *b.Settings
		b.Settings = &settings
	}
	return b
}
