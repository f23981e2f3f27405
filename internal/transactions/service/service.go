package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"transaction_dashboard_backend/internal/query"
	"transaction_dashboard_backend/internal/transactions/repository"
	"transaction_dashboard_backend/internal/transactions/transport"
	"transaction_dashboard_backend/platform/apperr"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/sanitize"
	"transaction_dashboard_backend/platform/validator"
)

// DefaultDeleteConcurrency caps in-flight deletions when no limit is set.
const DefaultDeleteConcurrency = 8

// Service provides the transaction list, facet and batch operations on top
// of the record store.
type Service struct {
	store             repository.Store
	translator        *repository.Translator
	val               *validator.Validator
	log               *logger.Logger
	deleteConcurrency int
}

// New creates a new transactions service. A deleteConcurrency of zero or
// less selects DefaultDeleteConcurrency.
func New(store repository.Store, val *validator.Validator, log *logger.Logger, deleteConcurrency int) *Service {
	if deleteConcurrency <= 0 {
		deleteConcurrency = DefaultDeleteConcurrency
	}
	return &Service{
		store:             store,
		translator:        repository.NewTranslator(query.TransactionPolicies),
		val:               val,
		log:               log,
		deleteConcurrency: deleteConcurrency,
	}
}

// List returns one page of transactions matching q, with the total number
// of matches and the number of pages.
//
// The store cannot count, so the total comes from a second, unpaginated
// find issued alongside the page fetch. Both must succeed.
func (s *Service) List(ctx context.Context, q query.Query) (transport.ListResponse, error) {
	if err := query.Validate(q); err != nil {
		return transport.ListResponse{}, apperr.Validation(query.MalformedQueryMessage).
			WithDetails([]query.FieldError{{Key: "query", Message: err.Error()}})
	}

	req := s.translator.Translate(q)

	var (
		total int
		page  []transport.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := s.store.Find(gctx, req.CountValues())
		if err != nil {
			return fetchError("count fetch failed", err)
		}
		total = len(all)
		return nil
	})
	g.Go(func() error {
		data, err := s.store.Find(gctx, req.PageValues())
		if err != nil {
			return fetchError("data fetch failed", err)
		}
		page = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.ListResponse{}, err
	}

	if page == nil {
		page = []transport.Transaction{}
	}
	return transport.ListResponse{
		Data:    page,
		Total:   total,
		MaxPage: query.MaxPage(total, q.Size),
	}, nil
}

// Metadata computes the facets of the whole collection, ignoring any
// filter the caller has applied to the list.
func (s *Service) Metadata(ctx context.Context) (transport.MetadataResponse, error) {
	all, err := s.store.Find(ctx, nil)
	if err != nil {
		return transport.MetadataResponse{}, fetchError("metadata fetch failed", err)
	}
	return Aggregate(all), nil
}

// GetByID returns a single transaction.
func (s *Service) GetByID(ctx context.Context, id string) (transport.Transaction, error) {
	return s.store.FindByID(ctx, id)
}

// Create assigns an id to req and stores it.
func (s *Service) Create(ctx context.Context, req transport.CreateTransactionRequest) (transport.Transaction, error) {
	tx := transport.Transaction{
		ID:            uuid.NewString(),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        req.Status,
		Timestamp:     req.Timestamp,
		Description:   req.Description,
		Merchant:      req.Merchant,
		PaymentMethod: req.PaymentMethod,
		Sender:        req.Sender,
		Receiver:      req.Receiver,
		Fees:          req.Fees,
		Metadata:      req.Metadata,
	}
	tx = cleanText(tx)
	if err := s.validate(tx); err != nil {
		return transport.Transaction{}, err
	}

	created, err := s.store.Create(ctx, tx)
	if err != nil {
		return transport.Transaction{}, err
	}
	s.log.Info("transaction created", "id", created.ID)
	return created, nil
}

// Update merges req into the stored transaction and replaces it. The
// merged record must be valid as a whole.
func (s *Service) Update(ctx context.Context, id string, req transport.UpdateTransactionRequest) (transport.Transaction, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return transport.Transaction{}, err
	}

	merged := cleanText(applyUpdate(current, req))
	merged.ID = id
	if err := s.validate(merged); err != nil {
		return transport.Transaction{}, err
	}

	return s.store.Replace(ctx, merged)
}

func (s *Service) validate(tx transport.Transaction) error {
	if err := s.val.Struct(tx); err != nil {
		return apperr.Validation("invalid transaction").WithDetails(validator.FieldErrors(err))
	}
	return nil
}

// cleanText strips markup from the free-text fields of tx.
func cleanText(tx transport.Transaction) transport.Transaction {
	tx.Description = sanitize.Text(tx.Description)
	tx.Merchant.Name = sanitize.Text(tx.Merchant.Name)
	tx.Sender.Name = sanitize.Text(tx.Sender.Name)
	tx.Receiver.Name = sanitize.Text(tx.Receiver.Name)
	return tx
}

func applyUpdate(tx transport.Transaction, req transport.UpdateTransactionRequest) transport.Transaction {
	if req.Amount != nil {
		tx.Amount = *req.Amount
	}
	if req.Currency != nil {
		tx.Currency = *req.Currency
	}
	if req.Status != nil {
		tx.Status = *req.Status
	}
	if req.Timestamp != nil {
		tx.Timestamp = *req.Timestamp
	}
	if req.Description != nil {
		tx.Description = *req.Description
	}
	if req.Merchant != nil {
		tx.Merchant = *req.Merchant
	}
	if req.PaymentMethod != nil {
		tx.PaymentMethod = *req.PaymentMethod
	}
	if req.Sender != nil {
		tx.Sender = *req.Sender
	}
	if req.Receiver != nil {
		tx.Receiver = *req.Receiver
	}
	if req.Fees != nil {
		tx.Fees = *req.Fees
	}
	if req.Metadata != nil {
		tx.Metadata = *req.Metadata
	}
	return tx
}

// fetchError names the failed fetch while keeping the store error's kind.
func fetchError(stage string, err error) error {
	kind := apperr.GetKind(err)
	if kind == apperr.KindUnknown {
		kind = apperr.KindUpstream
	}
	return apperr.Wrap(kind, stage, err)
}
