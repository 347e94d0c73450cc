package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"myersadmin/internal/access"
	"myersadmin/internal/collection"
	"myersadmin/internal/notify"
	"myersadmin/internal/seed"
	"myersadmin/internal/slot"
	"myersadmin/pkg/domain"
)

// DefaultPageSize is used when neither the query nor the service configures one.
const DefaultPageSize = 5

// Service runs every admin operation: it authorizes the actor, validates the
// input, evaluates rules and persists through the collection stores. Each
// operation emits a notification on failure, and mutations also on success.
type Service struct {
	slot     domain.Slot
	engine   *RulesEngine
	clock    Clock
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	notifier notify.Notifier
	newID    func() string
	pageSize int
	seed     seed.Data
	plugins  map[string]PluginMetadata

	users        *collection.Store[domain.User]
	dispensaries *collection.Store[domain.Dispensary]
	requests     *collection.Store[domain.ServiceRequest]
	invoices     *collection.Store[domain.Invoice]
	payments     *collection.Store[domain.Payment]
	agreements   *collection.Store[domain.ServiceAgreement]
	knowledge    *collection.Store[domain.KnowledgeBaseEntry]
	auth         *collection.Value[domain.AuthState]
	theme        *collection.Value[domain.ThemeState]
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithNotifier sets where notifications go.
func WithNotifier(n notify.Notifier) ServiceOption {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithRulesEngine replaces the default rules engine.
func WithRulesEngine(engine *RulesEngine) ServiceOption {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithPageSize sets the default page size for list operations.
func WithPageSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithIDGenerator overrides id generation for new records.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithSeed replaces the default collections written to an empty slot.
func WithSeed(data seed.Data) ServiceOption {
	return func(s *Service) { s.seed = data }
}

// NewService constructs a service persisting to slot.
func NewService(store domain.Slot, opts ...ServiceOption) *Service {
	s := &Service{
		slot:     store,
		engine:   NewDefaultRulesEngine(),
		clock:    systemClock{},
		logger:   noopLogger{},
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
		notifier: notify.Discard{},
		newID:    uuid.NewString,
		pageSize: DefaultPageSize,
		seed:     seed.Default(),
		plugins:  make(map[string]PluginMetadata),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.users = collection.NewStore(store, domain.KeyUsers, s.seed.Users, s.logger)
	s.dispensaries = collection.NewStore(store, domain.KeyDispensaries, s.seed.Dispensaries, s.logger)
	s.requests = collection.NewStore(store, domain.KeyServiceRequests, s.seed.ServiceRequests, s.logger)
	s.invoices = collection.NewStore(store, domain.KeyInvoices, s.seed.Invoices, s.logger)
	s.payments = collection.NewStore(store, domain.KeyPayments, s.seed.Payments, s.logger)
	s.agreements = collection.NewStore(store, domain.KeyServiceAgreement, s.seed.ServiceAgreements, s.logger)
	s.knowledge = collection.NewStore(store, domain.KeyKnowledgeBase, s.seed.KnowledgeBase, s.logger)
	s.auth = collection.NewValue(store, domain.KeyAuth, domain.AuthState{}, s.logger)
	s.theme = collection.NewValue(store, domain.KeyTheme, domain.ThemeState{Mode: domain.ThemeLight}, s.logger)
	return s
}

// NewInMemoryService creates a service over a fresh in-memory slot.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(slot.NewMemory(), opts...)
}

// Rules returns the names of the rules evaluated before each write.
func (s *Service) Rules() []string { return s.engine.Rules() }

// PageSize returns the default page size.
func (s *Service) PageSize() int { return s.pageSize }

func (s *Service) now() time.Time { return s.clock.Now().UTC() }

// run wraps an operation with tracing, metrics, logging and notification.
// fn returns the success notification; an empty title sends nothing.
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) (notify.Notification, error)) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := time.Now()
	n, err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("operation failed", "op", op, "error", err)
		s.notifier.Notify(failure(op, err))
		return err
	}
	s.logger.Debug("operation complete", "op", op)
	if n.Title != "" {
		s.notifier.Notify(n)
	}
	return nil
}

func failure(op string, err error) notify.Notification {
	var (
		fe domain.ForbiddenError
		ve domain.ValidationError
		nf domain.NotFoundError
		rv domain.RuleViolationError
	)
	switch {
	case errors.Is(err, domain.ErrUnauthenticated) && op == opLogin:
		return notify.Failure("Login failed", "Invalid email or password")
	case errors.Is(err, domain.ErrUnauthenticated):
		return notify.Failure("Not signed in", "Please log in to continue")
	case errors.As(err, &fe):
		return notify.Failure("Access denied", fe.Error())
	case errors.As(err, &ve):
		return notify.Failure("Validation error", ve.Error())
	case errors.As(err, &nf):
		return notify.Failure("Not found", nf.Error())
	case errors.As(err, &rv):
		return notify.Failure("Change rejected", rv.Error())
	default:
		return notify.Failure("Error", err.Error())
	}
}

// authorize checks the static policy for actor.
func (s *Service) authorize(actor *domain.User, entity domain.EntityType, action domain.Action) error {
	return access.Authorize(actor, entity, action)
}

// evaluate runs the rules engine against the pending changes. Warnings are
// logged; blocking violations abort the write.
func (s *Service) evaluate(ctx context.Context, changes []Change) (Result, error) {
	res, err := s.engine.Evaluate(ctx, ruleView{ctx: ctx, svc: s}, changes)
	if err != nil {
		return Result{}, err
	}
	for _, v := range res.Violations {
		switch v.Severity {
		case domain.SeverityWarn:
			s.logger.Warn("rule warning", "rule", v.Rule, "entity", v.Entity, "id", v.EntityID, "message", v.Message)
		case domain.SeverityLog:
			s.logger.Info("rule note", "rule", v.Rule, "entity", v.Entity, "id", v.EntityID, "message", v.Message)
		}
	}
	if res.HasBlocking() {
		return res, RuleViolationError{Result: res}
	}
	return res, nil
}

// commit performs one read-modify-write on store. fn computes the next
// collection and the changes it represents; the rules engine sees the changes
// before anything is written.
func commit[T domain.Record](ctx context.Context, s *Service, store *collection.Store[T], fn func(items []T) ([]T, []Change, error)) (Result, error) {
	var res Result
	_, err := store.Mutate(ctx, func(items []T) ([]T, error) {
		next, changes, err := fn(items)
		if err != nil {
			return nil, err
		}
		res, err = s.evaluate(ctx, changes)
		if err != nil {
			return nil, err
		}
		return next, nil
	})
	return res, err
}

// create appends record after validation.
func create[T domain.Record](ctx context.Context, s *Service, store *collection.Store[T], entity domain.EntityType, record T) (Result, error) {
	if err := domain.Validate(entity, record); err != nil {
		return Result{}, err
	}
	return commit(ctx, s, store, func(items []T) ([]T, []Change, error) {
		if _, exists := collection.FindByID(items, record.RecordID()); exists {
			return nil, nil, domain.ValidationError{Entity: entity, Field: "id", Reason: "already exists"}
		}
		return collection.UpsertByID(items, record), []Change{{Entity: entity, Action: ActionCreate, After: record}}, nil
	})
}

// replace swaps the stored record carrying the same id. prepare sees the
// stored record and may adjust the replacement before it is validated.
func replace[T domain.Record](ctx context.Context, s *Service, store *collection.Store[T], entity domain.EntityType, record T, prepare func(before T, next *T) error) (T, Result, error) {
	var next T
	res, err := commit(ctx, s, store, func(items []T) ([]T, []Change, error) {
		before, ok := collection.FindByID(items, record.RecordID())
		if !ok {
			return nil, nil, domain.NotFoundError{Entity: entity, ID: record.RecordID()}
		}
		next = record
		if prepare != nil {
			if err := prepare(before, &next); err != nil {
				return nil, nil, err
			}
		}
		if err := domain.Validate(entity, next); err != nil {
			return nil, nil, err
		}
		return collection.UpsertByID(items, next), []Change{{Entity: entity, Action: ActionUpdate, Before: before, After: next}}, nil
	})
	if err != nil {
		var zero T
		return zero, res, err
	}
	return next, res, nil
}

// remove deletes the record carrying id. A missing id is a NotFoundError.
func remove[T domain.Record](ctx context.Context, s *Service, store *collection.Store[T], entity domain.EntityType, id string, check func(before T) error) (Result, error) {
	return commit(ctx, s, store, func(items []T) ([]T, []Change, error) {
		before, ok := collection.FindByID(items, id)
		if !ok {
			return nil, nil, domain.NotFoundError{Entity: entity, ID: id}
		}
		if check != nil {
			if err := check(before); err != nil {
				return nil, nil, err
			}
		}
		return collection.RemoveByID(items, id), []Change{{Entity: entity, Action: ActionDelete, Before: before}}, nil
	})
}

// stamp assigns a fresh id and createdAt to a new record.
func (s *Service) stamp(b *domain.Base) {
	b.ID = s.newID()
	b.CreatedAt = s.now()
}

type ruleView struct {
	ctx context.Context
	svc *Service
}

func (v ruleView) FindDispensary(id string) (domain.Dispensary, bool) {
	return v.svc.dispensaries.Find(v.ctx, id)
}

func (v ruleView) FindInvoice(id string) (domain.Invoice, bool) {
	return v.svc.invoices.Find(v.ctx, id)
}

func (v ruleView) FindServiceRequest(id string) (domain.ServiceRequest, bool) {
	return v.svc.requests.Find(v.ctx, id)
}

// get returns the stored record carrying id.
func get[T domain.Record](ctx context.Context, store *collection.Store[T], entity domain.EntityType, id string) (T, error) {
	record, ok := store.Find(ctx, id)
	if !ok {
		return record, domain.NotFoundError{Entity: entity, ID: id}
	}
	return record, nil
}

// keepCreatedAt carries the stored creation time over to a replacement.
func keepCreatedAt(before, next *domain.Base) {
	next.CreatedAt = before.CreatedAt
}
