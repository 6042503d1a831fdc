package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

// Metrics contadores del relay y nivel de la bandeja tras cada lote.
type Metrics interface {
	SyncPublished(kind string)
	SyncFailed(kind string)
	SetOutboxPending(n int)
}

type nopMetrics struct{}

func (nopMetrics) SyncPublished(string) {}
func (nopMetrics) SyncFailed(string)    {}
func (nopMetrics) SetOutboxPending(int) {}

// Config parámetros del relay.
type Config struct {
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Status resumen para /api/sync/status.
type Status struct {
	repository.OutboxStats
	Running bool
}

// Relay publica en segundo plano las entradas pendientes de la bandeja.
type Relay struct {
	repo      repository.OutboxRepository
	publisher ports.EventPublisher
	clock     domain.Clock
	cfg       Config
	metrics   Metrics
	log       *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	flushMu sync.Mutex
}

// NewRelay construye el relay; valores no positivos en cfg toman los por defecto.
func NewRelay(repo repository.OutboxRepository, pub ports.EventPublisher, cfg Config, clock domain.Clock, m Metrics, log *logger.Logger) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 2 * time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	if m == nil {
		m = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Relay{repo: repo, publisher: pub, clock: clock, cfg: cfg, metrics: m, log: log}
}

// Start lanza el bucle de envío. Llamarlo dos veces no arranca un segundo bucle.
func (r *Relay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop detiene el bucle y espera a que termine el lote en curso.
func (r *Relay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Relay) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Relay) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.log.Error().Err(err).Msg("no se pudo leer la bandeja de salida")
			}
		}
	}
}

// Flush publica un lote de entradas vencidas y devuelve cuántas se enviaron.
// Un fallo de publicación reprograma la entrada; solo los errores del repositorio se devuelven.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	due, err := r.repo.Due(ctx, r.clock.Now(), r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	defer r.refreshPending(ctx)

	sent := 0
	for _, e := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		ok, err := r.deliver(ctx, e)
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// refreshPending publica en métricas cuántas entradas siguen pendientes.
func (r *Relay) refreshPending(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	st, err := r.repo.Stats(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("no se pudo contar la bandeja de salida")
		return
	}
	r.metrics.SetOutboxPending(st.Pending)
}

func (r *Relay) deliver(ctx context.Context, e *entity.OutboxEntry) (bool, error) {
	pubErr := r.publisher.Publish(ctx, e.OrderID, e.Payload)
	if pubErr == nil {
		r.metrics.SyncPublished(e.Kind)
		return true, r.repo.MarkSent(ctx, e.ID, r.clock.Now())
	}

	attempts := e.Attempts + 1
	logEv := r.log.Warn().Err(pubErr).Str("order_id", e.OrderID).Str("event", e.Kind).Int("attempts", attempts)
	if attempts >= r.cfg.MaxAttempts {
		r.metrics.SyncFailed(e.Kind)
		logEv.Msg("evento descartado tras agotar reintentos")
		return false, r.repo.MarkFailed(ctx, e.ID, attempts, pubErr.Error())
	}
	next := r.clock.Now().Add(r.Delay(attempts))
	logEv.Time("next_attempt", next).Msg("publicación fallida, se reintentará")
	return false, r.repo.MarkRetry(ctx, e.ID, attempts, next, pubErr.Error())
}

// Delay es la espera antes del reintento número attempts (1 = primer fallo).
// Crece exponencialmente desde InitialBackoff hasta MaxBackoff, sin jitter.
func (r *Relay) Delay(attempts int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     r.cfg.InitialBackoff,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         r.cfg.MaxBackoff,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	d := b.NextBackOff()
	for i := 1; i < attempts; i++ {
		d = b.NextBackOff()
	}
	return d
}

// Status devuelve los contadores de la bandeja y si el bucle está activo.
func (r *Relay) Status(ctx context.Context) (Status, error) {
	st, err := r.repo.Stats(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{OutboxStats: st, Running: r.running()}, nil
}
