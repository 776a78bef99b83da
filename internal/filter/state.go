package filter

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/models"
)

// Listener receives state change events.
type Listener func(models.FilterEvent)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn Listener
}

// Payload is the serialized form of the active filter state.
type Payload struct {
	Filters []models.ActiveFilter `json:"filters"`
}

// State is the ordered set of active filters. Re-adding an id keeps its original position.
// It is not safe for concurrent use.
type State struct {
	order     []string
	entries   map[string]models.ActiveFilter
	listeners []listener
	nextID    ListenerID
	logger    *zap.Logger
}

// NewState constructs an empty state.
func NewState(logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{entries: make(map[string]models.ActiveFilter), logger: logger}
}

// Set stores entry and emits eventType.
func (s *State) Set(entry models.ActiveFilter, eventType models.FilterEventType) {
	if _, exists := s.entries[entry.ID]; !exists {
		s.order = append(s.order, entry.ID)
	}
	s.entries[entry.ID] = entry
	s.emit(models.FilterEvent{Type: eventType, FilterID: entry.ID, Criteria: entry.Criteria})
}

// Delete removes id and reports whether it was active.
func (s *State) Delete(id string) bool {
	if _, exists := s.entries[id]; !exists {
		return false
	}
	delete(s.entries, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.emit(models.FilterEvent{Type: models.FilterEventRemove, FilterID: id})
	return true
}

// Clear empties the state. The clear event is emitted even when nothing was active.
func (s *State) Clear() {
	s.order = nil
	s.entries = make(map[string]models.ActiveFilter)
	s.emit(models.FilterEvent{Type: models.FilterEventClear})
}

// Replace swaps the whole state for entries and emits a single clear event.
func (s *State) Replace(entries []models.ActiveFilter) {
	s.order = nil
	s.entries = make(map[string]models.ActiveFilter, len(entries))
	for _, entry := range entries {
		if _, exists := s.entries[entry.ID]; !exists {
			s.order = append(s.order, entry.ID)
		}
		s.entries[entry.ID] = entry
	}
	s.emit(models.FilterEvent{Type: models.FilterEventClear})
}

// Get returns the active entry for id.
func (s *State) Get(id string) (models.ActiveFilter, bool) {
	entry, ok := s.entries[id]
	return entry, ok
}

// Has reports whether id is active.
func (s *State) Has(id string) bool {
	_, ok := s.entries[id]
	return ok
}

// Active returns a copy of the entries in activation order.
func (s *State) Active() []models.ActiveFilter {
	active := make([]models.ActiveFilter, 0, len(s.order))
	for _, id := range s.order {
		active = append(active, s.entries[id])
	}
	return active
}

// Count returns the number of active filters.
func (s *State) Count() int { return len(s.entries) }

// IsEmpty reports whether no filter is active.
func (s *State) IsEmpty() bool { return len(s.entries) == 0 }

// AddListener registers fn and returns a handle for RemoveListener.
func (s *State) AddListener(fn Listener) ListenerID {
	s.nextID++
	s.listeners = append(s.listeners, listener{id: s.nextID, fn: fn})
	return s.nextID
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (s *State) RemoveListener(id ListenerID) bool {
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Serialize encodes the active entries, leaving out the excluded ids.
func (s *State) Serialize(exclude ...string) ([]byte, error) {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	payload := Payload{Filters: make([]models.ActiveFilter, 0, len(s.order))}
	for _, entry := range s.Active() {
		if _, excluded := skip[entry.ID]; excluded {
			continue
		}
		payload.Filters = append(payload.Filters, entry)
	}
	return json.Marshal(payload)
}

// ParsePayload decodes a serialized state. The payload must be an object carrying a filters list
// and entries without an id are rejected.
func ParsePayload(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, err
	}
	if payload.Filters == nil {
		return Payload{}, fmt.Errorf("filter state has no filters list")
	}
	for i, entry := range payload.Filters {
		if entry.ID == "" {
			return Payload{}, fmt.Errorf("filter entry %d has no id", i)
		}
	}
	return payload, nil
}

func (s *State) emit(event models.FilterEvent) {
	event.Active = s.Active()
	listeners := append([]listener(nil), s.listeners...)
	for _, l := range listeners {
		s.notify(l, event)
	}
}

func (s *State) notify(l listener, event models.FilterEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("filter listener panicked",
				zap.Uint64("listener_id", uint64(l.id)),
				zap.String("event", string(event.Type)),
				zap.Any("panic", r))
		}
	}()
	// Each listener gets its own copy so mutations cannot leak to the next one.
	copied := event
	copied.Active = append([]models.ActiveFilter(nil), event.Active...)
	l.fn(copied)
}
