package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/storefront/internal/entity"
	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/ident"
	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// SaleService records sales against the product inventory.
type SaleService interface {
	// RecordSale validates every line of req against current stock and, when all lines pass,
	// stores the sale and the decremented stock together.
	// Returns a *StructuralError for a malformed request, a *ValidationError listing every
	// line problem, or a *PersistenceError when the store could not be written.
	RecordSale(ctx context.Context, req SaleCreateDto) (*model.Sale, error)

	// List returns every recorded sale in creation order.
	List(ctx context.Context) ([]model.Sale, error)

	// Get returns one sale. Returns ErrSaleNotFound if no sale has the given id.
	Get(ctx context.Context, id string) (*model.Sale, error)
}

// SaleCreateDto is a sale request. Client existence is not checked.
type SaleCreateDto struct {
	ClientID string        `json:"clientId" validate:"required"`
	Items    []SaleItemDto `json:"items"    validate:"required,gt=0,dive"`
}

type SaleItemDto struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"min=1"`
}

// Sales implements SaleService.
type Sales struct {
	store        store.TxStore
	locks        *store.Locks
	products     store.Collection[model.Product]
	sales        store.Collection[model.Sale]
	validate     *validator.Validate
	publisher    messaging.Publisher
	now          func() time.Time
	salesCounter metric.Int64Counter
	logger       *slog.Logger
}

var _ SaleService = (*Sales)(nil)

// NewSaleService creates a Sales. publisher receives a SaleRecordedEvent after every commit.
func NewSaleService(deps Deps, publisher messaging.Publisher) *Sales {
	deps = deps.withDefaults()
	meter := otel.Meter("storefront")
	salesCounter, err := meter.Int64Counter("sales_recorded", metric.WithDescription("Total number of recorded sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create sales_recorded counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NewLogPublisher(deps.Logger)
	}
	return &Sales{
		store:        deps.Store,
		locks:        deps.Locks,
		products:     store.NewCollection[model.Product](model.Products, deps.Logger),
		sales:        store.NewCollection[model.Sale](model.Sales, deps.Logger),
		validate:     deps.Validate,
		publisher:    publisher,
		now:          deps.Now,
		salesCounter: salesCounter,
		logger:       deps.Logger.With("component", "sale-service"),
	}
}

func (s *Sales) RecordSale(ctx context.Context, req SaleCreateDto) (*model.Sale, error) {
	if err := checkStruct(s.validate, req); err != nil {
		s.logger.WarnContext(ctx, "Rejected malformed sale request", "error", err)
		return nil, err
	}

	sale, err := s.commit(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "Sale not recorded", "client_id", req.ClientID, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Sale recorded", "id", sale.ID, "total", sale.Total.StringFixed(2))
	s.salesCounter.Add(ctx, 1)
	s.publishRecorded(ctx, sale)
	return &sale, nil
}

// commit validates and persists the sale while holding the product and sale locks.
// The locks are released before the caller does any network I/O.
func (s *Sales) commit(ctx context.Context, req SaleCreateDto) (model.Sale, error) {
	unlock := s.locks.Lock(model.Products, model.Sales)
	defer unlock()

	var sale model.Sale
	err := s.store.WithTx(ctx, func(tx store.RecordStore) error {
		products, err := s.products.Load(ctx, tx)
		if err != nil {
			return err
		}

		lines, total, details := applyLines(products, req.Items)
		if len(details) > 0 {
			return &apperrors.ValidationError{Details: details}
		}

		sales, err := s.sales.Load(ctx, tx)
		if err != nil {
			return err
		}
		id, err := ident.Next(model.SalePrefix, model.IDs(sales))
		if err != nil {
			return err
		}
		sale = model.Sale{
			ID:       id,
			Date:     s.now().UTC().Truncate(time.Millisecond),
			ClientID: req.ClientID,
			Items:    lines,
			Total:    total.Round(2),
		}

		if err := s.products.Save(ctx, tx, products); err != nil {
			return err
		}
		return s.sales.Save(ctx, tx, append(sales, sale))
	})
	return sale, err
}

// applyLines decrements stock in products for each item, in order. A line that fails leaves
// products untouched for that line and adds a message to details; later lines still run and
// see the stock left by earlier ones.
func applyLines(products []model.Product, items []SaleItemDto) (lines []model.SaleLine, total decimal.Decimal, details []string) {
	lines = make([]model.SaleLine, 0, len(items))
	for _, item := range items {
		idx := entity.IndexOf(products, item.ProductID)
		if idx < 0 {
			details = append(details, fmt.Sprintf("Product with ID %s not found.", item.ProductID))
			continue
		}
		p := &products[idx]
		if p.Stock < item.Quantity {
			details = append(details, fmt.Sprintf("Insufficient stock for product %s (ID: %s). Available: %d, Requested: %d.",
				p.Name, p.ID, p.Stock, item.Quantity))
			continue
		}
		p.Stock -= item.Quantity
		line := model.SaleLine{ProductID: p.ID, Name: p.Name, Quantity: item.Quantity, Price: p.Price}
		total = total.Add(line.Subtotal())
		lines = append(lines, line)
	}
	return lines, total, details
}

func (s *Sales) publishRecorded(ctx context.Context, sale model.Sale) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	items := make([]events.SaleRecordedItem, len(sale.Items))
	for i, line := range sale.Items {
		items[i] = events.SaleRecordedItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	event := events.SaleRecordedEvent{
		Carrier:   carrier,
		SaleID:    sale.ID,
		ClientID:  sale.ClientID,
		Total:     sale.Total,
		Items:     items,
		CreatedAt: sale.Date,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish SaleRecordedEvent", "sale_id", sale.ID, "error", err)
	}
}

func (s *Sales) List(ctx context.Context) ([]model.Sale, error) {
	return s.sales.Load(ctx, s.store)
}

func (s *Sales) Get(ctx context.Context, id string) (*model.Sale, error) {
	sales, err := s.sales.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	found, ok := entity.FindByID(sales, id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, apperrors.ErrSaleNotFound)
	}
	return &found, nil
}
