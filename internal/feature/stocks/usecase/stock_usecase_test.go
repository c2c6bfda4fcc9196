package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockStockRepository はStockRepositoryインターフェースのモック実装です。
type mockStockRepository struct {
	CreateFunc             func(ctx context.Context, symbol string) (uint, error)
	FindByIDFunc           func(ctx context.Context, id uint) (*entity.Stock, error)
	ListFunc               func(ctx context.Context) ([]entity.Stock, error)
	ListIDsFunc            func(ctx context.Context) ([]uint, error)
	UpdateFundamentalsFunc func(ctx context.Context, id uint, f entity.Fundamentals) error

	CreateCalls             int
	UpdateFundamentalsCalls int
}

func (m *mockStockRepository) Create(ctx context.Context, symbol string) (uint, error) {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, symbol)
	}
	return 0, errors.New("CreateFunc is not implemented")
}

func (m *mockStockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByIDFunc is not implemented")
}

func (m *mockStockRepository) List(ctx context.Context) ([]entity.Stock, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("ListFunc is not implemented")
}

func (m *mockStockRepository) ListIDs(ctx context.Context) ([]uint, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx)
	}
	return nil, errors.New("ListIDsFunc is not implemented")
}

func (m *mockStockRepository) UpdateFundamentals(ctx context.Context, id uint, f entity.Fundamentals) error {
	m.UpdateFundamentalsCalls++
	if m.UpdateFundamentalsFunc != nil {
		return m.UpdateFundamentalsFunc(ctx, id, f)
	}
	return errors.New("UpdateFundamentalsFunc is not implemented")
}

// mockScheduler はJobSchedulerインターフェースのモック実装です。
type mockScheduler struct {
	ScheduleFunc func(ctx context.Context, stockID uint) error
	Scheduled    []uint
}

func (m *mockScheduler) Schedule(ctx context.Context, stockID uint) error {
	m.Scheduled = append(m.Scheduled, stockID)
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, stockID)
	}
	return nil
}

// TestNormalizeSymbol はシンボルの正規化と検証を確認します。
func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"AAPL", "AAPL", false},
		{"  aapl ", "AAPL", false},
		{"brk.b", "BRK.B", false},
		{"7203.T", "7203.T", false},
		{"^GSPC", "^GSPC", false},
		{"", "", true},
		{"   ", "", true},
		{"AA PL", "", true},
		{"DROP;TABLE", "", true},
		{"ABCDEFGHIJKLMNOPQRSTU", "", true}, // 21 chars
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := usecase.NormalizeSymbol(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, usecase.ErrInvalidSymbol)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestStockUsecase_CreateStock はCreateStockの各種シナリオをテーブル駆動テストで検証します。
func TestStockUsecase_CreateStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		input             string
		mockCreate        func(ctx context.Context, symbol string) (uint, error)
		mockSchedule      func(ctx context.Context, stockID uint) error
		expectedID        uint
		expectedErr       error
		expectedCreates   int
		expectedScheduled []uint
	}{
		{
			name:  "success: creates and schedules enrichment",
			input: "aapl",
			mockCreate: func(ctx context.Context, symbol string) (uint, error) {
				if symbol != "AAPL" {
					t.Errorf("Create called with %q, want AAPL", symbol)
				}
				return 7, nil
			},
			expectedID:        7,
			expectedCreates:   1,
			expectedScheduled: []uint{7},
		},
		{
			name:              "failure: invalid symbol never reaches the store",
			input:             "  ",
			expectedErr:       usecase.ErrInvalidSymbol,
			expectedCreates:   0,
			expectedScheduled: nil,
		},
		{
			name:  "failure: duplicate symbol is not scheduled",
			input: "MSFT",
			mockCreate: func(ctx context.Context, symbol string) (uint, error) {
				return 0, usecase.ErrSymbolAlreadyExists
			},
			expectedErr:       usecase.ErrSymbolAlreadyExists,
			expectedCreates:   1,
			expectedScheduled: nil,
		},
		{
			name:  "success: scheduling failure does not fail creation",
			input: "GOOG",
			mockCreate: func(ctx context.Context, symbol string) (uint, error) {
				return 3, nil
			},
			mockSchedule: func(ctx context.Context, stockID uint) error {
				return errors.New("queue full")
			},
			expectedID:        3,
			expectedCreates:   1,
			expectedScheduled: []uint{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockStockRepository{CreateFunc: tt.mockCreate}
			sched := &mockScheduler{ScheduleFunc: tt.mockSchedule}
			uc := usecase.NewStockUsecase(repo, sched)

			id, err := uc.CreateStock(context.Background(), tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			assert.Equal(t, tt.expectedCreates, repo.CreateCalls)
			assert.Equal(t, tt.expectedScheduled, sched.Scheduled)
		})
	}
}

// TestStockUsecase_GetStock はGetStockがリポジトリの結果とエラーをそのまま返すことを検証します。
func TestStockUsecase_GetStock(t *testing.T) {
	t.Parallel()

	repo := &mockStockRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*entity.Stock, error) {
			if id == 1 {
				return &entity.Stock{ID: 1, Symbol: "AAPL"}, nil
			}
			return nil, usecase.ErrStockNotFound
		},
	}
	uc := usecase.NewStockUsecase(repo, &mockScheduler{})

	s, err := uc.GetStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s.Symbol)

	_, err = uc.GetStock(context.Background(), 2)
	assert.ErrorIs(t, err, usecase.ErrStockNotFound)
}

// TestStockUsecase_ListStocks はListStocksがリポジトリのエラーを伝播することを検証します。
func TestStockUsecase_ListStocks(t *testing.T) {
	t.Parallel()

	repo := &mockStockRepository{
		ListFunc: func(ctx context.Context) ([]entity.Stock, error) {
			return nil, ErrDB
		},
	}
	uc := usecase.NewStockUsecase(repo, &mockScheduler{})

	stocks, err := uc.ListStocks(context.Background())
	assert.ErrorIs(t, err, ErrDB)
	assert.Nil(t, stocks)
}
