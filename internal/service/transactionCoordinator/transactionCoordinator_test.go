package transactionCoordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) CreatePortfolio(ctx context.Context, name string) (model.Portfolio, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Portfolio), args.Error(1)
}

func (m *MockRemote) DeletePortfolio(ctx context.Context, portfolioID int64) error {
	args := m.Called(ctx, portfolioID)
	return args.Error(0)
}

func (m *MockRemote) CreateTransaction(ctx context.Context, draft model.TransactionDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, symbol string) (string, error) {
	args := m.Called(ctx, symbol)
	return args.String(0), args.Error(1)
}

func validDraft() model.TransactionDraft {
	return model.TransactionDraft{
		PortfolioID: 1,
		Side:        model.SideBuy,
		Symbol:      "btc",
		Quantity:    decimal.NewFromInt(2),
		Amount:      decimal.NewFromInt(100),
	}
}

func TestCreatePortfolio(t *testing.T) {
	remote := new(MockRemote)
	remote.On("CreatePortfolio", mock.Anything, "Main").Return(model.Portfolio{ID: 10, Name: "Main"}, nil)
	coordinator := New(remote, new(MockVerifier))

	existing := []model.Portfolio{{ID: 3, Name: "Old"}}
	portfolios, created, err := coordinator.CreatePortfolio(context.Background(), existing, "  Main ")

	require.NoError(t, err)
	assert.Equal(t, model.Portfolio{ID: 10, Name: "Main"}, created)
	assert.Equal(t, []model.Portfolio{{ID: 3, Name: "Old"}, {ID: 10, Name: "Main"}}, portfolios)
	assert.Len(t, existing, 1)
	remote.AssertExpectations(t)
}

func TestCreatePortfolioEmptyName(t *testing.T) {
	remote := new(MockRemote)
	coordinator := New(remote, new(MockVerifier))

	portfolios, _, err := coordinator.CreatePortfolio(context.Background(), nil, "   ")

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Field)
	assert.Empty(t, portfolios)
	remote.AssertNotCalled(t, "CreatePortfolio", mock.Anything, mock.Anything)
}

func TestCreatePortfolioRemoteFailureKeepsList(t *testing.T) {
	remote := new(MockRemote)
	remote.On("CreatePortfolio", mock.Anything, "Main").Return(model.Portfolio{}, errors.New("timeout"))
	coordinator := New(remote, new(MockVerifier))

	existing := []model.Portfolio{{ID: 3, Name: "Old"}}
	portfolios, _, err := coordinator.CreatePortfolio(context.Background(), existing, "Main")

	var remoteErr *service.RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, existing, portfolios)
}

func TestValidateTransactionDraft(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(d *model.TransactionDraft)
		wantField string
	}{
		{name: "valid", modify: func(d *model.TransactionDraft) {}},
		{name: "empty symbol wins over everything", modify: func(d *model.TransactionDraft) {
			d.Symbol = " "
			d.Quantity = decimal.Zero
			d.Amount = decimal.Zero
		}, wantField: "symbol"},
		{name: "quantity before amount", modify: func(d *model.TransactionDraft) {
			d.Quantity = decimal.NewFromInt(-1)
			d.Amount = decimal.Zero
		}, wantField: "quantity"},
		{name: "absent amount", modify: func(d *model.TransactionDraft) { d.Amount = decimal.Decimal{} }, wantField: "amount"},
		{name: "unknown side", modify: func(d *model.TransactionDraft) { d.Side = "Hold" }, wantField: "side"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.modify(&draft)

			err := ValidateTransactionDraft(draft)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *service.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestSubmitTransactionCommitted(t *testing.T) {
	remote := new(MockRemote)
	verifier := new(MockVerifier)
	verifier.On("Verify", mock.Anything, "BTC").Return("BTC", nil)

	want := validDraft()
	want.Symbol = "BTC"
	remote.On("CreateTransaction", mock.Anything, want).Return(nil)

	attempt, err := New(remote, verifier).SubmitTransaction(context.Background(), validDraft())

	require.NoError(t, err)
	assert.Equal(t, model.DraftCommitted, attempt.Status)
	assert.Equal(t, "BTC", attempt.Draft.Symbol)
	remote.AssertExpectations(t)
	verifier.AssertExpectations(t)
}

func TestSubmitTransactionZeroQuantityRejectedBeforeRemoteCalls(t *testing.T) {
	remote := new(MockRemote)
	verifier := new(MockVerifier)

	draft := validDraft()
	draft.Quantity = decimal.Zero

	attempt, err := New(remote, verifier).SubmitTransaction(context.Background(), draft)

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, model.DraftRejected, attempt.Status)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	remote.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitTransactionSymbolNotFound(t *testing.T) {
	remote := new(MockRemote)
	verifier := new(MockVerifier)
	verifier.On("Verify", mock.Anything, "BTC").Return("", service.ErrSymbolNotFound)

	attempt, err := New(remote, verifier).SubmitTransaction(context.Background(), validDraft())

	assert.ErrorIs(t, err, service.ErrSymbolNotFound)
	assert.Equal(t, model.DraftRejected, attempt.Status)
	remote.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestSubmitTransactionVerifierUnavailable(t *testing.T) {
	verifier := new(MockVerifier)
	verifier.On("Verify", mock.Anything, "BTC").Return("", errors.New("circuit breaker is open"))

	_, err := New(new(MockRemote), verifier).SubmitTransaction(context.Background(), validDraft())

	var remoteErr *service.RemoteServiceError
	assert.ErrorAs(t, err, &remoteErr)
}

func TestSubmitTransactionRemoteFailure(t *testing.T) {
	remote := new(MockRemote)
	verifier := new(MockVerifier)
	verifier.On("Verify", mock.Anything, "BTC").Return("BTC", nil)
	remote.On("CreateTransaction", mock.Anything, mock.Anything).Return(errors.New("db is down"))

	attempt, err := New(remote, verifier).SubmitTransaction(context.Background(), validDraft())

	var remoteErr *service.RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, model.DraftRejected, attempt.Status)
}

func TestSubmitTransactionWithoutPortfolio(t *testing.T) {
	draft := validDraft()
	draft.PortfolioID = 0

	_, err := New(new(MockRemote), new(MockVerifier)).SubmitTransaction(context.Background(), draft)

	assert.ErrorIs(t, err, service.ErrInvalidSelection)
}

func TestSubmitTransactionValidatesBeforeSelection(t *testing.T) {
	verifier := new(MockVerifier)
	draft := validDraft()
	draft.PortfolioID = 0
	draft.Symbol = ""

	attempt, err := New(new(MockRemote), verifier).SubmitTransaction(context.Background(), draft)

	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "symbol", validationErr.Field)
	assert.NotErrorIs(t, err, service.ErrInvalidSelection)
	assert.Equal(t, model.DraftRejected, attempt.Status)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestDeletePortfolio(t *testing.T) {
	remote := new(MockRemote)
	remote.On("DeletePortfolio", mock.Anything, int64(4)).Return(nil)
	remote.On("DeletePortfolio", mock.Anything, int64(5)).Return(errors.New("boom"))
	coordinator := New(remote, new(MockVerifier))

	assert.NoError(t, coordinator.DeletePortfolio(context.Background(), 4))
	assert.ErrorIs(t, coordinator.DeletePortfolio(context.Background(), 0), service.ErrInvalidSelection)

	var remoteErr *service.RemoteServiceError
	assert.ErrorAs(t, coordinator.DeletePortfolio(context.Background(), 5), &remoteErr)
	remote.AssertNumberOfCalls(t, "DeletePortfolio", 2)
}

func TestPrefillFromRow(t *testing.T) {
	row := model.AssetRow{Symbol: "ETH", PriceText: "$3000.00", HoldingsText: "2"}

	prefill, ok := PrefillFromRow(ActionSellToken, row)
	require.True(t, ok)
	assert.Equal(t, model.SideSell, prefill.Side)
	assert.Equal(t, "ETH", prefill.Symbol)
	assert.Equal(t, "$3000.00", prefill.Price)

	_, ok = PrefillFromRow("rename_token", row)
	assert.False(t, ok)
}

func TestNewDraft(t *testing.T) {
	input := model.DraftInput{Quantity: decimal.NewFromInt(1), Amount: decimal.NewFromInt(5)}

	draft := NewDraft(3, model.DraftPrefill{Side: model.SideSell, Symbol: "ETH"}, input)
	assert.Equal(t, model.SideSell, draft.Side)
	assert.Equal(t, "ETH", draft.Symbol)
	assert.Equal(t, int64(3), draft.PortfolioID)

	draft = NewDraft(3, model.DraftPrefill{}, model.DraftInput{Symbol: "sol"})
	assert.Equal(t, model.SideBuy, draft.Side)
	assert.Equal(t, "sol", draft.Symbol)
}
