package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"

	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/infrastructure/storage/postgres"
)

const customerTable = "customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*customer.Customer](
			txManager,
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			[]string{"name", "phone"},
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// GetByPhone retrieves a customer by exact phone match.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	return r.FindOne(ctx, map[string]any{"phone": phone})
}

// upsertByPhoneQuery builds the single-statement phone upsert.
// ON CONFLICT DO NOTHING keeps the enclosing transaction usable when a
// concurrent booking inserts the same phone first.
func (r *CustomerRepo) upsertByPhoneQuery(c *customer.Customer) (string, []any, error) {
	data := postgres.StructToMap(c)

	cols := make([]string, 0, len(r.selectCols))
	vals := make([]any, 0, len(r.selectCols))
	for _, col := range r.selectCols {
		if v, ok := data[col]; ok {
			cols = append(cols, col)
			vals = append(vals, v)
		}
	}

	return r.Builder().
		Insert(customerTable).
		Columns(cols...).
		Values(vals...).
		Suffix("ON CONFLICT (phone) DO NOTHING RETURNING " + strings.Join(r.selectCols, ", ")).
		ToSql()
}

// FindOrCreateByPhone returns the existing customer for phone or creates a
// new one. The second return value reports whether a row was created.
// Runs inside the booking transaction, so the insert must not abort it:
// a lost race on the unique phone index returns no row instead of 23505,
// and the follow-up read links the winner's customer.
func (r *CustomerRepo) FindOrCreateByPhone(ctx context.Context, name, phone string) (*customer.Customer, bool, error) {
	c := customer.New(name, phone)
	if err := c.Validate(ctx); err != nil {
		return nil, false, err
	}

	sql, args, err := r.upsertByPhoneQuery(c)
	if err != nil {
		return nil, false, fmt.Errorf("build upsert: %w", err)
	}

	created := &customer.Customer{}
	err = pgxscan.Get(ctx, r.Querier(ctx), created, sql, args...)
	if err == nil {
		return created, true, nil
	}
	if !pgxscan.NotFound(err) {
		return nil, false, fmt.Errorf("upsert customer: %w", err)
	}

	existing, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, fmt.Errorf("find customer by phone: %w", err)
	}
	return existing, false, nil
}
