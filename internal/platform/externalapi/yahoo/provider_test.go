package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_tracker/internal/feature/stocks/usecase"
)

func sampleEquity() *finance.Equity {
	return &finance.Equity{
		Quote: finance.Quote{
			Symbol:                     "KO",
			RegularMarketPreviousClose: 62.87,
			FiftyDayAverage:            61.5,
			TwoHundredDayAverage:       60.25,
		},
		ForwardPE:                   21.4,
		EpsForward:                  2.94,
		TrailingAnnualDividendYield: 0.0309,
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p := NewProvider(nil)
	assert.NotNil(t, p)
	assert.NotNil(t, p.get)
}

func TestProvider_GetQuote(t *testing.T) {
	t.Parallel()

	var requested string
	p := NewProviderWithGetter(func(symbol string) (*finance.Equity, error) {
		requested = symbol
		return sampleEquity(), nil
	})

	q, err := p.GetQuote(context.Background(), "KO")
	require.NoError(t, err)

	assert.Equal(t, "KO", requested)
	assert.Equal(t, "KO", q.Symbol)
	require.NotNil(t, q.PreviousClose)
	assert.Equal(t, 62.87, *q.PreviousClose)
	require.NotNil(t, q.FiftyDayAverage)
	assert.Equal(t, 61.5, *q.FiftyDayAverage)
	require.NotNil(t, q.TwoHundredDayAverage)
	assert.Equal(t, 60.25, *q.TwoHundredDayAverage)
	require.NotNil(t, q.ForwardPE)
	assert.Equal(t, 21.4, *q.ForwardPE)
	require.NotNil(t, q.ForwardEPS)
	assert.Equal(t, 2.94, *q.ForwardEPS)
	require.NotNil(t, q.DividendYield)
	assert.Equal(t, 0.0309, *q.DividendYield)
}

func TestProvider_GetQuote_ZeroMeansAbsent(t *testing.T) {
	t.Parallel()

	eq := sampleEquity()
	eq.TrailingAnnualDividendYield = 0
	eq.EpsForward = 0

	p := NewProviderWithGetter(func(string) (*finance.Equity, error) { return eq, nil })

	q, err := p.GetQuote(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Nil(t, q.DividendYield)
	assert.Nil(t, q.ForwardEPS)
	assert.NotNil(t, q.PreviousClose)
}

func TestProvider_GetQuote_Errors(t *testing.T) {
	t.Parallel()

	errUpstream := errors.New("remote error")

	tests := []struct {
		name        string
		getter      EquityGetter
		expectedErr error
	}{
		{
			name:        "upstream error is wrapped",
			getter:      func(string) (*finance.Equity, error) { return nil, errUpstream },
			expectedErr: errUpstream,
		},
		{
			name:        "unknown symbol",
			getter:      func(string) (*finance.Equity, error) { return nil, nil },
			expectedErr: usecase.ErrQuoteNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := NewProviderWithGetter(tt.getter).GetQuote(context.Background(), "ZZZZ")
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, q)
		})
	}
}

func TestProvider_GetQuote_ContextCanceled(t *testing.T) {
	t.Parallel()

	t.Run("canceled before call", func(t *testing.T) {
		t.Parallel()

		called := false
		p := NewProviderWithGetter(func(string) (*finance.Equity, error) {
			called = true
			return sampleEquity(), nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.GetQuote(ctx, "KO")
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("deadline while waiting", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)
		p := NewProviderWithGetter(func(string) (*finance.Equity, error) {
			<-release
			return sampleEquity(), nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := p.GetQuote(ctx, "KO")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
