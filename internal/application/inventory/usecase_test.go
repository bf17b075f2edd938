package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockwise/internal/application/inventory"
	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

type memProducts struct {
	products map[string]*entity.Product
	locked   []string
}

func (m *memProducts) GetAll(context.Context) ([]*entity.Product, error) { return nil, nil }
func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (m *memProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}
func (m *memProducts) UpdateStock(_ context.Context, id string, qty int) error {
	m.products[id].Quantity = qty
	return nil
}
func (m *memProducts) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	m.products[id].Cost = cost
	return nil
}

type memTxs struct {
	created []*entity.Transaction
	err     error
}

func (m *memTxs) Create(_ context.Context, tx *entity.Transaction) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, tx)
	return nil
}
func (m *memTxs) ListByProduct(_ context.Context, productID string, _ int) ([]entity.Transaction, error) {
	var out []entity.Transaction
	for _, tx := range m.created {
		if tx.ProductID == productID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

// inlineRunner ejecuta fn con los mismos repos, sin transacción real.
type inlineRunner struct {
	products *memProducts
	txs      *memTxs
}

func (r *inlineRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.TransactionRepository) error) error {
	return fn(r.products, r.txs)
}

type checkerSpy struct {
	calls []string
	err   error
}

func (c *checkerSpy) CheckProduct(_ context.Context, id string) (*entity.Alert, error) {
	c.calls = append(c.calls, id)
	return nil, c.err
}

type invalidatorSpy struct{ products []string }

func (i *invalidatorSpy) InvalidateProduct(_ context.Context, id string) {
	i.products = append(i.products, id)
}

type fixture struct {
	products *memProducts
	txs      *memTxs
	checker  *checkerSpy
	inval    *invalidatorSpy
	uc       *inventory.TransactionUseCase
}

func newFixture() *fixture {
	f := &fixture{
		products: &memProducts{products: map[string]*entity.Product{
			"p1": {ID: "p1", Name: "Café", Quantity: 10, Cost: decimal.NewFromInt(100)},
		}},
		txs:     &memTxs{},
		checker: &checkerSpy{},
		inval:   &invalidatorSpy{},
	}
	runner := &inlineRunner{products: f.products, txs: f.txs}
	f.uc = inventory.NewTransactionUseCase(runner, f.products, f.txs, f.checker, zerolog.Nop()).
		WithForecastInvalidator(f.inval)
	return f
}

func TestRecordTransaction_SalidaMayorAlStockQuedaEnCero(t *testing.T) {
	f := newFixture()

	tx, err := f.uc.RecordTransaction(context.Background(), inventory.TransactionInput{
		UserID: "u1", ProductID: "p1", Type: entity.TransactionTypeOut, Quantity: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, tx.PreviousQuantity)
	assert.Equal(t, 0, tx.NewQuantity)
	assert.Equal(t, 0, f.products.products["p1"].Quantity)
	assert.Equal(t, []string{"p1"}, f.products.locked)
	assert.Equal(t, []string{"p1"}, f.checker.calls, "re-evalúa el umbral tras el commit")
	assert.Equal(t, []string{"p1"}, f.inval.products)
	require.Len(t, f.txs.created, 1)
	assert.Equal(t, "u1", f.txs.created[0].CreatedBy)
}

func TestRecordTransaction_ReposicionActualizaCosto(t *testing.T) {
	f := newFixture()
	price := decimal.NewFromInt(200)

	tx, err := f.uc.RecordTransaction(context.Background(), inventory.TransactionInput{
		ProductID: "p1", Type: entity.TransactionTypeRestock, Quantity: 10, UnitPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, tx.NewQuantity)
	assert.True(t, decimal.NewFromInt(150).Equal(f.products.products["p1"].Cost))
	assert.True(t, decimal.NewFromInt(2000).Equal(tx.TotalValue))
}

func TestRecordTransaction_AjusteNegativo(t *testing.T) {
	f := newFixture()

	tx, err := f.uc.RecordTransaction(context.Background(), inventory.TransactionInput{
		ProductID: "p1", Type: entity.TransactionTypeAdjustment, Quantity: -4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, tx.NewQuantity)
	assert.True(t, decimal.NewFromInt(400).Equal(tx.TotalValue), "valor al costo promedio")
}

func TestRecordTransaction_EntradasInvalidas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	neg := decimal.NewFromInt(-1)

	cases := []inventory.TransactionInput{
		{ProductID: "p1", Type: "gift", Quantity: 1},
		{ProductID: "p1", Type: entity.TransactionTypeOut, Quantity: 0},
		{ProductID: "p1", Type: entity.TransactionTypeOut, Quantity: -3},
		{ProductID: "p1", Type: entity.TransactionTypeIn, Quantity: 3, UnitPrice: &neg},
		{ProductID: "", Type: entity.TransactionTypeIn, Quantity: 3},
	}
	for _, in := range cases {
		_, err := f.uc.RecordTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}

	_, err := f.uc.RecordTransaction(ctx, inventory.TransactionInput{ProductID: "nope", Type: entity.TransactionTypeIn, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.txs.created)
	assert.Empty(t, f.checker.calls)
}

func TestRecordTransaction_FalloDelCheckerNoFalla(t *testing.T) {
	f := newFixture()
	f.checker.err = errors.New("alert store caído")

	_, err := f.uc.RecordTransaction(context.Background(), inventory.TransactionInput{
		ProductID: "p1", Type: entity.TransactionTypeIn, Quantity: 1,
	})
	assert.NoError(t, err)
}

func TestRecordTransaction_FalloEnLaTxSePropaga(t *testing.T) {
	f := newFixture()
	f.txs.err = errors.New("deadlock")

	_, err := f.uc.RecordTransaction(context.Background(), inventory.TransactionInput{
		ProductID: "p1", Type: entity.TransactionTypeIn, Quantity: 1,
	})
	assert.Error(t, err)
	assert.Empty(t, f.checker.calls)
	assert.Empty(t, f.inval.products)
}

func TestListTransactions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.uc.RecordTransaction(ctx, inventory.TransactionInput{ProductID: "p1", Type: entity.TransactionTypeOut, Quantity: 1})
		require.NoError(t, err)
	}
	list, err := f.uc.ListTransactions(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = f.uc.ListTransactions(ctx, "", 7)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
