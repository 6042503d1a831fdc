package cart

import (
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// Session es el carrito de un usuario: ítems más fechas tentativas del evento.
// Vive en memoria del servidor y se vacía al confirmar el pedido.
type Session struct {
	mu        sync.Mutex
	email     string
	items     []entity.CartItem
	startDate time.Time
	endDate   time.Time
}

// NewSession crea un carrito vacío para email.
func NewSession(email string) *Session {
	return &Session{email: email}
}

// Email devuelve el dueño del carrito.
func (s *Session) Email() string { return s.email }

// Items devuelve una copia de los ítems en orden de inserción.
func (s *Session) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CartItem(nil), s.items...)
}

// IsEmpty indica si el carrito no tiene ítems.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Dates devuelve las fechas tentativas (cero si no se han fijado).
func (s *Session) Dates() (time.Time, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startDate, s.endDate
}

// SetDates fija el rango del evento; end no puede ser anterior a start.
func (s *Session) SetDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.NewValidationError("dates", "fechas requeridas")
	}
	if end.Before(start) {
		return domain.NewValidationError("end_date", "la fecha final es anterior a la inicial")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startDate, s.endDate = start, end
	return nil
}

// Add suma qty unidades de p (o crea el ítem). La cantidad resultante se topa en available;
// si no queda ninguna unidad libre devuelve *domain.CapacityError.
func (s *Session) Add(p entity.Product, qty int, fileURL string, available int) (entity.CartItem, error) {
	if qty < 1 {
		return entity.CartItem{}, domain.NewValidationError("quantity", "debe ser al menos 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(p.ID)
	current := 0
	if idx >= 0 {
		current = s.items[idx].Quantity
	}
	if available <= current {
		return entity.CartItem{}, &domain.CapacityError{Shortages: []domain.Shortage{{
			ProductID: p.ID, Name: p.Name, Requested: current + qty, Available: available,
		}}}
	}
	next := min(current+qty, available)

	if idx >= 0 {
		s.items[idx].Product = p
		s.items[idx].Quantity = next
		if strings.TrimSpace(fileURL) != "" {
			s.items[idx].FileURL = fileURL
		}
		return s.items[idx], nil
	}
	item := entity.CartItem{Product: p, Quantity: next, FileURL: fileURL}
	s.items = append(s.items, item)
	return item, nil
}

// SetQuantity fija la cantidad de un ítem existente, topada en available. qty < 1 lo elimina.
func (s *Session) SetQuantity(productID string, qty, available int) (entity.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(productID)
	if idx < 0 {
		return entity.CartItem{}, domain.ErrProductNotFound
	}
	if qty < 1 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		return entity.CartItem{}, nil
	}
	if available < 1 {
		return entity.CartItem{}, &domain.CapacityError{Shortages: []domain.Shortage{{
			ProductID: productID, Name: s.items[idx].Name, Requested: qty, Available: available,
		}}}
	}
	s.items[idx].Quantity = min(qty, available)
	return s.items[idx], nil
}

// Remove quita el ítem si existe.
func (s *Session) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(productID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
}

// Clear vacía ítems y fechas.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.startDate, s.endDate = time.Time{}, time.Time{}
}

func (s *Session) indexOf(productID string) int {
	for i, it := range s.items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

// SessionStore mantiene un carrito por usuario.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore construye el almacén vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get devuelve el carrito de email, creándolo si no existe.
func (st *SessionStore) Get(email string) *Session {
	k := strings.ToLower(strings.TrimSpace(email))
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[k]
	if !ok {
		s = NewSession(k)
		st.sessions[k] = s
	}
	return s
}

// Drop descarta el carrito de email.
func (st *SessionStore) Drop(email string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, strings.ToLower(strings.TrimSpace(email)))
}
