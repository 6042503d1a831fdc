package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/abs-rental-api/internal/application/cart"
	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/access"
	"github.com/jhoicas/abs-rental-api/internal/domain/availability"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
	"github.com/jhoicas/abs-rental-api/internal/domain/workflow"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

const maxIDAttempts = 5

// Deps colaboradores del servicio. Solo Orders y Products son obligatorios.
type Deps struct {
	Orders   repository.OrderRepository
	Products repository.ProductRepository
	Engine   *workflow.Engine
	Policy   access.Policy
	Clock    domain.Clock
	NewID    func() (string, error)
	Events   EventRecorder
	Evidence EvidenceStore
	Notifier ports.Notifier
	Guides   ports.GuideRenderer
	Metrics  Metrics
	Log      *logger.Logger
}

// Service gestiona el ciclo de vida de pedidos: checkout, aprobación, cancelación
// y el avance del flujo logístico.
type Service struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	engine   *workflow.Engine
	policy   access.Policy
	clock    domain.Clock
	newID    func() (string, error)
	events   EventRecorder
	evidence EvidenceStore
	notifier ports.Notifier
	guides   ports.GuideRenderer
	metrics  Metrics
	log      *logger.Logger
}

// NewService construye el servicio aplicando valores por defecto a los colaboradores opcionales.
func NewService(d Deps) *Service {
	s := &Service{
		orders:   d.Orders,
		products: d.Products,
		engine:   d.Engine,
		policy:   d.Policy,
		clock:    d.Clock,
		newID:    d.NewID,
		events:   d.Events,
		evidence: d.Evidence,
		notifier: d.Notifier,
		guides:   d.Guides,
		metrics:  d.Metrics,
		log:      d.Log,
	}
	if s.clock == nil {
		s.clock = domain.SystemClock
	}
	if s.engine == nil {
		s.engine = workflow.NewEngine(s.clock)
	}
	if s.policy == "" {
		s.policy = access.PolicyRoleBased
	}
	if s.newID == nil {
		s.newID = GenerateID
	}
	if s.events == nil {
		s.events = nopEvents{}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// CheckoutInput datos de confirmación del carrito. Sin fechas se toman las del carrito;
// enviar solo una de las dos es un error de validación.
type CheckoutInput struct {
	OrderType   entity.OrderType
	StartDate   time.Time
	EndDate     time.Time
	Origin      string
	Destination string
}

// Checkout convierte el carrito en un pedido. Un alquiler que excede el inventario
// devuelve *domain.CapacityError con todos los faltantes y no crea nada.
func (s *Service) Checkout(ctx context.Context, actor *entity.User, sess *cart.Session, in CheckoutInput) (*entity.Order, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	items := sess.Items()
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "el carrito está vacío", Cause: domain.ErrEmptyCart}
	}
	if !in.OrderType.Valid() {
		return nil, domain.NewValidationError("order_type", "debe ser quote o rental")
	}
	origin := strings.TrimSpace(in.Origin)
	destination := strings.TrimSpace(in.Destination)
	if origin == "" {
		return nil, domain.NewValidationError("origin_location", "requerido")
	}
	if destination == "" {
		return nil, domain.NewValidationError("destination_location", "requerido")
	}
	start, end := in.StartDate, in.EndDate
	switch {
	case start.IsZero() && end.IsZero():
		start, end = sess.Dates()
	case start.IsZero():
		return nil, domain.NewValidationError("start_date", "requerida cuando se envía end_date")
	case end.IsZero():
		return nil, domain.NewValidationError("end_date", "requerida cuando se envía start_date")
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidationError("dates", "fechas del evento requeridas")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("end_date", "la fecha final es anterior a la inicial")
	}

	if in.OrderType == entity.OrderTypeRental {
		if err := s.checkCapacity(ctx, items, start, end, ""); err != nil {
			return nil, err
		}
	}

	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}
	quote := pricing.Quote(items, pricing.EventDays(start, end), actor.DiscountPercentage)
	now := s.clock.Now()
	status := entity.StatusPendiente
	if in.OrderType == entity.OrderTypeQuote {
		status = entity.StatusCotizacion
	}
	o := &entity.Order{
		ID:                  id,
		Items:               items,
		UserEmail:           actor.Email,
		Status:              status,
		OrderType:           in.OrderType,
		StartDate:           start,
		EndDate:             end,
		OriginLocation:      origin,
		DestinationLocation: destination,
		TotalAmount:         quote.Total,
		Workflow:            workflow.NewWorkflow(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("checkout: guardar pedido: %w", err)
	}
	sess.Clear()

	s.record(ctx, o, EventCreated)
	s.metrics.OrderCreated(string(o.OrderType))
	s.log.Info().
		Str("order_id", o.ID).
		Str("user", o.UserEmail).
		Str("order_type", string(o.OrderType)).
		Str("total", o.TotalAmount.String()).
		Msg("pedido creado")
	return o, nil
}

// Approve pasa una cotización a Pendiente y asigna coordinador. Solo admin.
// Un pedido inexistente no es error: se registra y se ignora.
func (s *Service) Approve(ctx context.Context, actor *entity.User, id, coordinatorEmail string) error {
	if actor == nil || !access.CanAdminister(actor.Role) {
		return domain.ErrForbidden
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		s.log.Warn().Str("order_id", id).Msg("aprobación de pedido inexistente ignorada")
		return nil
	}
	if o.Status != entity.StatusCotizacion {
		return fmt.Errorf("aprobar %s en estado %s: %w", id, o.Status, domain.ErrConflict)
	}
	prev := o.Status
	o.Status = entity.StatusPendiente
	o.AssignedCoordinatorEmail = strings.TrimSpace(coordinatorEmail)
	return s.persistTransition(ctx, o, prev, EventApproved)
}

// ConfirmQuote convierte una cotización propia en alquiler, revalidando el inventario.
func (s *Service) ConfirmQuote(ctx context.Context, actor *entity.User, id string) (*entity.Order, error) {
	o, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(actor.Email) && !access.CanAdminister(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if o.Status != entity.StatusCotizacion {
		return nil, fmt.Errorf("confirmar %s en estado %s: %w", id, o.Status, domain.ErrConflict)
	}
	if err := s.checkCapacity(ctx, o.Items, o.StartDate, o.EndDate, o.ID); err != nil {
		return nil, err
	}
	prev := o.Status
	o.OrderType = entity.OrderTypeRental
	o.Status = entity.StatusPendiente
	if err := s.persistTransition(ctx, o, prev, EventConfirmed); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel marca el pedido como Cancelado. Lo pueden hacer el dueño o el personal.
// Es irreversible; repetirlo no es error.
func (s *Service) Cancel(ctx context.Context, actor *entity.User, id string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		s.log.Warn().Str("order_id", id).Msg("cancelación de pedido inexistente ignorada")
		return nil
	}
	if !o.IsOwnedBy(actor.Email) && !access.IsStaff(actor.Role) {
		return domain.ErrForbidden
	}
	switch o.Status {
	case entity.StatusCancelado:
		return nil
	case entity.StatusFinalizado:
		return fmt.Errorf("cancelar %s finalizado: %w", id, domain.ErrConflict)
	}
	prev := o.Status
	o.Status = entity.StatusCancelado
	return s.persistTransition(ctx, o, prev, EventCancelled)
}

// Delete elimina el pedido definitivamente. Solo admin.
func (s *Service) Delete(ctx context.Context, actor *entity.User, id string) error {
	if actor == nil || !access.CanAdminister(actor.Role) {
		return domain.ErrForbidden
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return nil
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar pedido %s: %w", id, err)
	}
	s.record(ctx, o, EventDeleted)
	s.log.Info().Str("order_id", id).Str("by", actor.Email).Msg("pedido eliminado")
	return nil
}

// AssignCoordinator cambia el coordinador responsable. Admin u operations_manager.
func (s *Service) AssignCoordinator(ctx context.Context, actor *entity.User, id, email string) (*entity.Order, error) {
	if actor == nil || !access.CanAssignCoordinator(actor.Role) {
		return nil, domain.ErrForbidden
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("coordinator_email", "requerido")
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status.IsTerminal() {
		return nil, fmt.Errorf("reasignar %s en estado %s: %w", id, o.Status, domain.ErrConflict)
	}
	o.AssignedCoordinatorEmail = email
	o.UpdatedAt = s.clock.Now()
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("reasignar coordinador: %w", err)
	}
	s.record(ctx, o, EventCoordinatorAssigned)
	return o, nil
}

// UpdateStage aplica cambios a una etapa del flujo y, si complete es true, la cierra y
// recalcula el estado del pedido con la tabla de transición.
func (s *Service) UpdateStage(ctx context.Context, actor *entity.User, id string, key entity.StageKey, u workflow.Update, complete bool) (*entity.Order, error) {
	if _, err := workflow.ParseStageKey(string(key)); err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !s.policy.CanEditWorkflow(actor, o) || !access.CanViewStage(actor.Role, key) {
		return nil, domain.ErrForbidden
	}
	stage := workflow.MustStage(o.Workflow, key)
	// Validar sobre una copia antes de subir evidencias: un cierre rechazado no deja blobs.
	if err := s.engine.Apply(stage.Clone(), u, actor, complete); err != nil {
		return nil, err
	}
	if err := s.externalize(ctx, &u); err != nil {
		return nil, err
	}
	if err := s.engine.Apply(stage, u, actor, complete); err != nil {
		return nil, err
	}

	prev := o.Status
	if complete {
		o.Status = workflow.DeriveStatus(o.Status, key)
	}
	o.UpdatedAt = s.clock.Now()
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("guardar etapa %s: %w", key, err)
	}

	kind := EventStageUpdated
	if complete {
		kind = EventStageCompleted
	}
	s.record(ctx, o, kind)
	s.metrics.StageUpdated(string(key), complete)
	if prev != o.Status {
		s.afterStatusChange(ctx, o, prev)
	}
	s.log.Info().
		Str("order_id", o.ID).
		Str("stage", string(key)).
		Bool("completed", complete).
		Str("status", string(o.Status)).
		Msg("etapa actualizada")
	return o, nil
}

// Get devuelve un pedido visible para actor.
func (s *Service) Get(ctx context.Context, actor *entity.User, id string) (*entity.Order, error) {
	return s.loadVisible(ctx, actor, id)
}

// List lista pedidos; los clientes solo ven los propios.
func (s *Service) List(ctx context.Context, actor *entity.User, f repository.OrderFilter) ([]*entity.Order, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !access.IsStaff(actor.Role) {
		f.UserEmail = actor.Email
	}
	return s.orders.List(ctx, f)
}

// Availability calcula las unidades libres de un producto en [start, end].
func (s *Service) Availability(ctx context.Context, productID string, start, end time.Time) (entity.Product, int, error) {
	if end.Before(start) {
		return entity.Product{}, 0, domain.NewValidationError("end_date", "la fecha final es anterior a la inicial")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return entity.Product{}, 0, err
	}
	if p == nil {
		return entity.Product{}, 0, domain.ErrProductNotFound
	}
	orders, err := s.orders.All(ctx)
	if err != nil {
		return entity.Product{}, 0, fmt.Errorf("disponibilidad: listar pedidos: %w", err)
	}
	return *p, availability.Available(*p, orders, start, end), nil
}

// Quote recalcula el desglose de precios de un pedido existente. El total es siempre el
// congelado en TotalAmount; la diferencia con el subtotal se muestra como descuento.
func (s *Service) Quote(o *entity.Order) pricing.Breakdown {
	b := pricing.Quote(o.Items, pricing.EventDays(o.StartDate, o.EndDate), decimal.Zero)
	if o.TotalAmount.IsPositive() && o.TotalAmount.LessThan(b.Subtotal) {
		b.Discount = b.Subtotal.Sub(o.TotalAmount)
		b.DiscountPercent = b.Discount.Div(b.Subtotal).Mul(decimal.NewFromInt(100)).Round(2)
		b.Total = o.TotalAmount
	}
	return b
}

// DispatchGuide genera la guía de despacho en PDF.
func (s *Service) DispatchGuide(ctx context.Context, actor *entity.User, id string) ([]byte, error) {
	if s.guides == nil {
		return nil, fmt.Errorf("guía de despacho no configurada")
	}
	o, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.guides.RenderDispatchGuide(ctx, o, s.Quote(o))
}

func (s *Service) loadVisible(ctx context.Context, actor *entity.User, id string) (*entity.Order, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !access.CanViewOrder(actor, o) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// checkCapacity revisa el inventario contra todos los pedidos salvo excludeID.
func (s *Service) checkCapacity(ctx context.Context, items []entity.CartItem, start, end time.Time, excludeID string) error {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return fmt.Errorf("verificar disponibilidad: %w", err)
	}
	if excludeID != "" {
		kept := orders[:0]
		for _, o := range orders {
			if o.ID != excludeID {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	catalog := make(map[string]entity.Product, len(items))
	for _, it := range items {
		if _, ok := catalog[it.ID]; ok {
			continue
		}
		p, err := s.products.GetByID(ctx, it.ID)
		if err != nil {
			return fmt.Errorf("verificar disponibilidad: %w", err)
		}
		if p != nil {
			catalog[p.ID] = *p
		}
	}
	if shortages := availability.CheckCart(items, catalog, orders, start, end); len(shortages) > 0 {
		return &domain.CapacityError{Shortages: shortages}
	}
	return nil
}

func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generar id: %w", err)
		}
		exists, err := s.orders.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("generar id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("generar id: %d colisiones seguidas: %w", maxIDAttempts, domain.ErrConflict)
}

func (s *Service) persistTransition(ctx context.Context, o *entity.Order, prev entity.OrderStatus, kind string) error {
	o.UpdatedAt = s.clock.Now()
	if err := s.orders.Save(ctx, o); err != nil {
		return fmt.Errorf("guardar pedido %s: %w", o.ID, err)
	}
	s.record(ctx, o, kind)
	if prev != o.Status {
		s.afterStatusChange(ctx, o, prev)
	}
	return nil
}

func (s *Service) afterStatusChange(ctx context.Context, o *entity.Order, prev entity.OrderStatus) {
	s.metrics.StatusChanged(string(prev), string(o.Status))
	log := s.log.ForOrder(o.ID)
	log.Info().
		Str("from", string(prev)).
		Str("status", string(o.Status)).
		Msg("cambio de estado")
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderStatusChanged(ctx, o, prev); err != nil {
		log.Warn().Err(err).Msg("notificación de estado no enviada")
	}
}

// record encola el evento; un fallo no revierte la escritura local ya hecha.
func (s *Service) record(ctx context.Context, o *entity.Order, kind string) {
	if err := s.events.Record(ctx, o, kind); err != nil {
		s.log.ForOrder(o.ID).Error().Err(err).Str("event", kind).Msg("no se pudo encolar evento de sincronización")
	}
}

func (s *Service) externalize(ctx context.Context, u *workflow.Update) error {
	if s.evidence == nil {
		return nil
	}
	for i, ref := range u.AddPhotos {
		out, err := s.evidence.Externalize(ctx, ref)
		if err != nil {
			return err
		}
		u.AddPhotos[i] = out
	}
	for _, sig := range []*entity.Signature{u.Signature, u.ReceivedBy} {
		if sig == nil {
			continue
		}
		out, err := s.evidence.Externalize(ctx, sig.DataURL)
		if err != nil {
			return err
		}
		sig.DataURL = out
		if sig.EvidencePhoto != "" {
			if sig.EvidencePhoto, err = s.evidence.Externalize(ctx, sig.EvidencePhoto); err != nil {
				return err
			}
		}
	}
	return nil
}
