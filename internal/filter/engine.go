package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/models"
	appErrors "github.com/noah-isme/course-planner-api/pkg/errors"
)

// Engine composes a registry of filters with their active state. CourseFilterService and
// ScheduleFilterService are both built on it, differing only in F.
type Engine[F Descriptor] struct {
	registry map[string]F
	order    []string
	state    *State
	logger   *zap.Logger
}

// NewEngine constructs an engine with an empty registry.
func NewEngine[F Descriptor](logger *zap.Logger) *Engine[F] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[F]{
		registry: make(map[string]F),
		state:    NewState(logger),
		logger:   logger,
	}
}

// Register adds f to the registry, replacing any filter with the same id in place.
func (e *Engine[F]) Register(f F) {
	id := f.ID()
	if _, exists := e.registry[id]; !exists {
		e.order = append(e.order, id)
	}
	e.registry[id] = f
}

// Unregister removes a filter and its active entry.
func (e *Engine[F]) Unregister(id string) bool {
	if _, exists := e.registry[id]; !exists {
		return false
	}
	delete(e.registry, id)
	for i, candidate := range e.order {
		if candidate == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.state.Delete(id)
	return true
}

// Lookup returns a registered filter.
func (e *Engine[F]) Lookup(id string) (F, bool) {
	f, ok := e.registry[id]
	return f, ok
}

// Registered lists filters in registration order.
func (e *Engine[F]) Registered() []F {
	filters := make([]F, 0, len(e.order))
	for _, id := range e.order {
		filters = append(filters, e.registry[id])
	}
	return filters
}

// Descriptors describes every registered filter for clients.
func (e *Engine[F]) Descriptors() []models.FilterDescriptor {
	descriptors := make([]models.FilterDescriptor, 0, len(e.order))
	for _, f := range e.Registered() {
		descriptors = append(descriptors, models.FilterDescriptor{
			ID:          f.ID(),
			Name:        f.Name(),
			Description: f.Description(),
			Active:      e.state.Has(f.ID()),
		})
	}
	return descriptors
}

// Add activates a filter. Re-adding an active filter replaces its criteria in place.
func (e *Engine[F]) Add(id string, criteria json.RawMessage) error {
	entry, err := e.entry(id, criteria)
	if err != nil {
		return err
	}
	e.state.Set(entry, models.FilterEventAdd)
	return nil
}

// Update changes the criteria of an active filter.
func (e *Engine[F]) Update(id string, criteria json.RawMessage) error {
	if !e.state.Has(id) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("filter %s is not active", id))
	}
	entry, err := e.entry(id, criteria)
	if err != nil {
		return err
	}
	e.state.Set(entry, models.FilterEventUpdate)
	return nil
}

// Remove deactivates a filter.
func (e *Engine[F]) Remove(id string) bool {
	return e.state.Delete(id)
}

// Clear deactivates every filter.
func (e *Engine[F]) Clear() {
	e.state.Clear()
}

// Toggle removes an active filter or adds it with criteria. It returns whether the filter is
// active afterwards.
func (e *Engine[F]) Toggle(id string, criteria json.RawMessage) (bool, error) {
	if e.state.Has(id) {
		e.state.Delete(id)
		return false, nil
	}
	if err := e.Add(id, criteria); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether id is active.
func (e *Engine[F]) Has(id string) bool { return e.state.Has(id) }

// Criteria returns the active criteria for id.
func (e *Engine[F]) Criteria(id string) (json.RawMessage, bool) {
	entry, ok := e.state.Get(id)
	return entry.Criteria, ok
}

// Active returns the active entries in activation order.
func (e *Engine[F]) Active() []models.ActiveFilter { return e.state.Active() }

// Count returns the number of active filters.
func (e *Engine[F]) Count() int { return e.state.Count() }

// IsEmpty reports whether no filter is active.
func (e *Engine[F]) IsEmpty() bool { return e.state.IsEmpty() }

// Summary renders a one line description of the active state.
func (e *Engine[F]) Summary() string {
	switch active := e.state.Active(); len(active) {
	case 0:
		return "No filters active"
	case 1:
		return "1 filter: " + active[0].DisplayValue
	default:
		return fmt.Sprintf("%d filters active", len(active))
	}
}

// AddListener subscribes to state changes.
func (e *Engine[F]) AddListener(fn Listener) ListenerID { return e.state.AddListener(fn) }

// RemoveListener unsubscribes a listener.
func (e *Engine[F]) RemoveListener(id ListenerID) bool { return e.state.RemoveListener(id) }

// Ordered returns the active filters bound to their criteria: searchText first, then the rest in
// registration order.
func (e *Engine[F]) Ordered() []Applied[F] {
	applied := make([]Applied[F], 0, e.state.Count())
	if entry, ok := e.state.Get(SearchTextID); ok {
		if f, registered := e.registry[SearchTextID]; registered {
			applied = append(applied, Applied[F]{Filter: f, Criteria: entry.Criteria})
		}
	}
	for _, id := range e.order {
		if id == SearchTextID {
			continue
		}
		if entry, ok := e.state.Get(id); ok {
			applied = append(applied, Applied[F]{Filter: e.registry[id], Criteria: entry.Criteria})
		}
	}
	return applied
}

// Serialize encodes the active state as {"filters":[...]}.
func (e *Engine[F]) Serialize(exclude ...string) ([]byte, error) {
	return e.state.Serialize(exclude...)
}

// Deserialize replaces the active state with data. Malformed payloads return false and leave the
// state untouched. Entries for unregistered filters, with invalid criteria, or listed in skip are
// dropped.
func (e *Engine[F]) Deserialize(data []byte, skip ...string) bool {
	payload, err := ParsePayload(data)
	if err != nil {
		e.logger.Warn("discarding malformed filter state", zap.Error(err))
		return false
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, id := range skip {
		skipped[id] = struct{}{}
	}

	entries := make([]models.ActiveFilter, 0, len(payload.Filters))
	for _, stored := range payload.Filters {
		if _, ok := skipped[stored.ID]; ok {
			continue
		}
		entry, err := e.entry(stored.ID, stored.Criteria)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	e.state.Replace(entries)
	return true
}

func (e *Engine[F]) entry(id string, criteria json.RawMessage) (models.ActiveFilter, error) {
	f, ok := e.registry[id]
	if !ok {
		e.logger.Warn("filter not registered", zap.String("filter_id", id))
		return models.ActiveFilter{}, appErrors.Clone(appErrors.ErrUnknownFilter, fmt.Sprintf("filter %s is not registered", id))
	}
	if !f.IsValidCriteria(criteria) {
		e.logger.Warn("invalid filter criteria", zap.String("filter_id", id), zap.ByteString("criteria", criteria))
		return models.ActiveFilter{}, appErrors.Clone(appErrors.ErrInvalidCriteria, fmt.Sprintf("invalid criteria for filter %s", id))
	}
	return models.ActiveFilter{
		ID:           id,
		Name:         f.Name(),
		Criteria:     compact(criteria),
		DisplayValue: f.DisplayValue(criteria),
	}, nil
}

func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return append(json.RawMessage(nil), raw...)
	}
	return json.RawMessage(buf.Bytes())
}
