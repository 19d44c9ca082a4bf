package wizard

import (
	"fmt"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/config"
	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/shopspring/decimal"
)

// Manager drives the promotion creation/edit flow and the broadcast flow
// against a conversation-state store. It validates input per step, advances
// on success, and re-prompts without transitioning on failure.
type Manager struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Reply is what a wizard interaction produces for the presentation layer.
type Reply struct {
	Step    Step
	Text    string
	Invalid bool // input rejected, step unchanged

	// Edit mode: the accepted single-field update.
	Done  bool
	Field string
	Value any
}

// StartCreate opens a fresh creation session and returns the first prompt.
func (m *Manager) StartCreate(sessionID int64) Reply {
	m.store.Set(sessionID, &Session{Mode: ModeCreate, Step: StepName})
	return Reply{Step: StepName, Text: "Давайте создадим новую акцию!\n\nВведите название акции:"}
}

// StartEdit opens an edit session for one field of an existing promotion.
// The current promotion values seed the draft so cross-field rules
// (percentage bound, end after start) stay enforced.
func (m *Manager) StartEdit(sessionID int64, p *domain.Promotion, field string) (Reply, bool) {
	step, ok := editSteps[field]
	if !ok {
		return Reply{}, false
	}
	s := &Session{
		Mode:        ModeEdit,
		Step:        step,
		EditPromoID: p.ID,
		EditField:   field,
		Draft: Draft{
			DiscountType:    p.DiscountType,
			DiscountTypeSet: true,
			StartDate:       p.StartDate,
			StartDateSet:    true,
		},
	}
	m.store.Set(sessionID, s)
	return Reply{Step: step, Text: m.editPrompt(p, field)}, true
}

// StartBroadcast opens a broadcast session for the chosen audience.
func (m *Manager) StartBroadcast(sessionID int64, audience string) Reply {
	m.store.Set(sessionID, &Session{
		Mode:              ModeBroadcast,
		Step:              StepBroadcastText,
		BroadcastAudience: audience,
	})
	return Reply{Step: StepBroadcastText, Text: "📝 Введите текст уведомления:"}
}

var editSteps = map[string]Step{
	"name":           StepName,
	"description":    StepDescription,
	"discount_type":  StepDiscountType,
	"discount_value": StepDiscountValue,
	"start_date":     StepStartDate,
	"end_date":       StepEndDate,
}

// Session returns the active session for a chat, if any.
func (m *Manager) Session(sessionID int64) (*Session, bool) {
	return m.store.Get(sessionID)
}

// Cancel drops all session data. No side effects have happened yet, so
// there is nothing else to undo.
func (m *Manager) Cancel(sessionID int64) {
	m.store.Clear(sessionID)
}

// Input feeds one text message into the active session. Invalid input
// yields a re-prompt for the same step.
func (m *Manager) Input(sessionID int64, text string) (Reply, bool) {
	s, ok := m.store.Get(sessionID)
	if !ok {
		return Reply{}, false
	}

	switch s.Step {
	case StepName:
		name, err := ParseName(text)
		if err != nil {
			return m.invalid(s, "❌ Название должно быть от 1 до 100 символов.\nПожалуйста, попробуйте снова:"), true
		}
		return m.accept(sessionID, s, "name", name, func(d *Draft) {
			d.Name, d.NameSet = name, true
		}), true

	case StepDescription:
		description := text
		return m.accept(sessionID, s, "description", description, func(d *Draft) {
			d.Description, d.DescriptionSet = description, true
		}), true

	case StepDiscountType:
		t, err := ParseDiscountTypeChoice(text)
		if err != nil {
			return m.invalid(s, "❌ Пожалуйста, выберите 1 для процентной скидки или 2 для фиксированной скидки."), true
		}
		return m.accept(sessionID, s, "discount_type", t.String(), func(d *Draft) {
			d.DiscountType, d.DiscountTypeSet = t, true
			// A changed type invalidates a previously entered value.
			d.DiscountValueSet = false
		}), true

	case StepDiscountValue:
		value, err := ParseDiscountValue(s.Draft.DiscountType, text)
		switch err {
		case nil:
		case domain.ErrPercentageTooLarge:
			return m.invalid(s, "❌ Процент скидки не может быть больше 100%. Пожалуйста, введите корректное значение:"), true
		default:
			return m.invalid(s, "❌ Пожалуйста, введите корректное числовое значение для скидки."), true
		}
		return m.accept(sessionID, s, "discount_value", value, func(d *Draft) {
			d.DiscountValue, d.DiscountValueSet = value, true
		}), true

	case StepStartDate:
		start, err := ParseStartDate(text, m.now())
		if err != nil {
			return m.invalid(s, "❌ Неверный формат даты. Пожалуйста, используйте формат ДД-ММ-ГГГГ."), true
		}
		return m.accept(sessionID, s, "start_date", start, func(d *Draft) {
			d.StartDate, d.StartDateSet = start, true
		}), true

	case StepEndDate:
		end, err := ParseEndDate(text, s.Draft.StartDate)
		switch err {
		case nil:
		case domain.ErrEndBeforeStart:
			return m.invalid(s, "❌ Дата окончания должна быть позже даты начала. Пожалуйста, введите корректную дату:"), true
		default:
			return m.invalid(s, "❌ Неверный формат даты. Пожалуйста, используйте формат ДД-ММ-ГГГГ."), true
		}
		return m.accept(sessionID, s, "end_date", end, func(d *Draft) {
			d.EndDate, d.EndDateSet = end, true
		}), true

	case StepBroadcastText:
		if len(text) == 0 {
			return m.invalid(s, "⚠️ Текст уведомления не может быть пустым. Пожалуйста, введите текст:"), true
		}
		m.store.Update(sessionID, func(s *Session) {
			s.BroadcastText = text
			s.Step = StepBroadcastConfirm
		})
		return Reply{Step: StepBroadcastConfirm}, true
	}

	// Product selection and confirmation are callback-driven; a stray text
	// message re-renders nothing.
	return Reply{Step: s.Step, Invalid: true}, true
}

// Back moves to the immediately preceding input step and re-displays its
// prompt, pre-filled with any previously entered value. From the first
// step (or outside the create flow) it reports false and the caller
// returns to the menu.
func (m *Manager) Back(sessionID int64) (Reply, bool) {
	s, ok := m.store.Get(sessionID)
	if !ok || s.Mode != ModeCreate || s.Step == StepName {
		return Reply{}, false
	}
	prev := s.Step - 1
	m.store.Update(sessionID, func(s *Session) { s.Step = prev })
	return Reply{Step: prev, Text: m.prompt(&s.Draft, prev)}, true
}

// ToggleProduct flips one product in the session selection set and returns
// the current selection.
func (m *Manager) ToggleProduct(sessionID int64, productID int64) ([]int64, bool) {
	s, ok := m.store.Get(sessionID)
	if !ok || s.Step != StepProducts {
		return nil, false
	}
	var selected []int64
	m.store.Update(sessionID, func(s *Session) {
		s.Draft.ToggleProduct(productID)
		selected = append(selected, s.Draft.SelectedProducts...)
	})
	return selected, true
}

// ConfirmProducts closes the selection step and moves to confirmation.
func (m *Manager) ConfirmProducts(sessionID int64) (*Session, bool) {
	s, ok := m.store.Get(sessionID)
	if !ok || s.Step != StepProducts {
		return nil, false
	}
	m.store.Update(sessionID, func(s *Session) { s.Step = StepConfirm })
	s, _ = m.store.Get(sessionID)
	return s, true
}

// accept stores a validated value. In create mode it advances to the next
// step; in edit mode it hands the typed value back for a single-field
// update and ends the session.
func (m *Manager) accept(sessionID int64, s *Session, field string, value any, apply func(*Draft)) Reply {
	if s.Mode == ModeEdit {
		m.store.Clear(sessionID)
		return Reply{Step: s.Step, Done: true, Field: field, Value: value}
	}
	next := s.Step + 1
	m.store.Update(sessionID, func(s *Session) {
		apply(&s.Draft)
		s.Step = next
	})
	s, _ = m.store.Get(sessionID)
	return Reply{Step: next, Text: m.prompt(&s.Draft, next)}
}

func (m *Manager) invalid(s *Session, text string) Reply {
	return Reply{Step: s.Step, Text: text, Invalid: true}
}

// prompt renders the instruction for a step, appending the previously
// entered value when the user navigated back to it.
func (m *Manager) prompt(d *Draft, step Step) string {
	var text string
	switch step {
	case StepName:
		text = "Введите название акции:"
		if d.NameSet {
			text += fmt.Sprintf("\n\nТекущее значение: %s", d.Name)
		}
	case StepDescription:
		text = "Введите описание акции:"
		if d.DescriptionSet {
			text += fmt.Sprintf("\n\nТекущее значение: %s", d.Description)
		}
	case StepDiscountType:
		text = "Выберите тип скидки:\n" +
			"1. Процентная скидка (например, 10% от цены)\n" +
			"2. Фиксированная скидка (например, 500₽)"
		if d.DiscountTypeSet {
			text += fmt.Sprintf("\n\nТекущее значение: %s", discountTypeLabel(d.DiscountType))
		}
	case StepDiscountValue:
		if d.DiscountType == domain.DiscountPercentage {
			text = "Введите процент скидки (например, 10 для 10%):"
		} else {
			text = "Введите сумму скидки в рублях (например, 500):"
		}
		if d.DiscountValueSet {
			text += fmt.Sprintf("\n\nТекущее значение: %s", d.DiscountValue)
		}
	case StepStartDate:
		today := m.now().Format(config.DateFormat)
		text = fmt.Sprintf("Введите дату начала акции в формате ДД-ММ-ГГГГ:\n"+
			"Или отправьте «-», чтобы использовать сегодняшнюю дату (%s)", today)
		if d.StartDateSet {
			text += fmt.Sprintf("\n\nТекущее значение: %s", d.StartDate.Format(config.DateFormat))
		}
	case StepEndDate:
		text = "Введите дату окончания акции в формате ДД-ММ-ГГГГ:\n" +
			"Или отправьте «-», если акция бессрочная."
		if d.EndDateSet {
			text += fmt.Sprintf("\n\nТекущее значение: %s", formatEndDate(d.EndDate))
		}
	case StepProducts:
		text = "Выберите товары, к которым применяется акция:"
	case StepConfirm:
		text = Summary(d)
	}
	return text
}

func (m *Manager) editPrompt(p *domain.Promotion, field string) string {
	var fieldName, current string
	switch field {
	case "name":
		fieldName, current = "названия", p.Name
	case "description":
		fieldName, current = "описания", p.Description
	case "discount_type":
		return fmt.Sprintf("Текущий тип скидки: %s\n\nВыберите новый тип скидки:\n"+
			"1. Процентная скидка\n2. Фиксированная скидка", discountTypeLabel(p.DiscountType))
	case "discount_value":
		fieldName, current = "значения скидки", p.DiscountValue.String()
	case "start_date":
		fieldName, current = "даты начала", p.StartDate.Format(config.DateFormat)
	case "end_date":
		fieldName, current = "даты окончания", formatEndDate(p.EndDate)
	}
	return fmt.Sprintf("Редактирование %s акции\n\nТекущее значение: %s\n\nВведите новое значение для %s:",
		fieldName, current, fieldName)
}

// Summary renders the confirmation screen for a completed draft.
func Summary(d *Draft) string {
	return fmt.Sprintf(
		"Проверьте данные акции перед созданием:\n\n"+
			"Название: %s\n"+
			"Описание: %s\n"+
			"Тип скидки: %s\n"+
			"Значение скидки: %s\n"+
			"Период: с %s по %s\n"+
			"Выбрано товаров: %d\n\n"+
			"Всё верно?",
		d.Name,
		d.Description,
		discountTypeLabel(d.DiscountType),
		discountValueLabel(d.DiscountType, d.DiscountValue),
		d.StartDate.Format(config.DateFormat),
		formatEndDate(d.EndDate),
		len(d.SelectedProducts),
	)
}

func discountTypeLabel(t domain.DiscountType) string {
	if t == domain.DiscountPercentage {
		return "Процентная"
	}
	return "Фиксированная"
}

func discountValueLabel(t domain.DiscountType, v decimal.Decimal) string {
	if t == domain.DiscountPercentage {
		return v.String() + "%"
	}
	return v.String() + "₽"
}

func formatEndDate(end *time.Time) string {
	if end == nil {
		return "бессрочно"
	}
	return end.Format(config.DateFormat)
}
