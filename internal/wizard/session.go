package wizard

import (
	"sync"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/shopspring/decimal"
)

// Step is the tagged position of a conversation inside a flow. A session
// is always at exactly one step; terminal outcomes clear the session
// instead of adding a state.
type Step int

const (
	StepName Step = iota
	StepDescription
	StepDiscountType
	StepDiscountValue
	StepStartDate
	StepEndDate
	StepProducts
	StepConfirm

	StepBroadcastText
	StepBroadcastConfirm
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeBroadcast
)

// Draft accumulates validated wizard input. The *Set flags track which
// fields hold a previously entered value, so back-navigation can show it.
type Draft struct {
	Name             string
	NameSet          bool
	Description      string
	DescriptionSet   bool
	DiscountType     domain.DiscountType
	DiscountTypeSet  bool
	DiscountValue    decimal.Decimal
	DiscountValueSet bool
	StartDate        time.Time
	StartDateSet     bool
	EndDate          *time.Time
	EndDateSet       bool

	// Session-scoped product selection; nothing persists until confirm.
	SelectedProducts []int64
}

// ToggleProduct adds the id to the selection, or removes it when present.
func (d *Draft) ToggleProduct(productID int64) {
	for i, id := range d.SelectedProducts {
		if id == productID {
			d.SelectedProducts = append(d.SelectedProducts[:i], d.SelectedProducts[i+1:]...)
			return
		}
	}
	d.SelectedProducts = append(d.SelectedProducts, productID)
}

// Promotion builds the domain value a completed draft describes.
func (d *Draft) Promotion(createdBy int64) domain.Promotion {
	return domain.Promotion{
		Name:          d.Name,
		Description:   d.Description,
		DiscountType:  d.DiscountType,
		DiscountValue: d.DiscountValue,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		CreatedBy:     createdBy,
	}
}

// HasProduct reports whether the id is currently selected.
func (d *Draft) HasProduct(productID int64) bool {
	for _, id := range d.SelectedProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// Session is the per-chat wizard state.
type Session struct {
	Mode  Mode
	Step  Step
	Draft Draft

	// Edit mode
	EditPromoID int64
	EditField   string

	// Broadcast mode
	BroadcastAudience string // "everyone", "new_products", "promotions"
	BroadcastText     string
}

// Store is the conversation-state store the wizard is written against.
type Store interface {
	Get(sessionID int64) (*Session, bool)
	Set(sessionID int64, s *Session)
	Update(sessionID int64, fn func(*Session))
	Clear(sessionID int64)
}

// MemoryStore keeps sessions in process memory keyed by chat id. The
// transport dispatches one update of a chat at a time, so a mutex around
// the map is all the coordination needed.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (m *MemoryStore) Get(sessionID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

func (m *MemoryStore) Set(sessionID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = s
}

func (m *MemoryStore) Update(sessionID int64, fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		fn(s)
	}
}

func (m *MemoryStore) Clear(sessionID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
