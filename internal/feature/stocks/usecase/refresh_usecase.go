package usecase

import (
	"context"
	"log/slog"
)

// Enricher は1銘柄のエンリッチメントを同期的に実行します。
type Enricher interface {
	Enrich(ctx context.Context, id uint) error
}

// RefreshUsecase は登録済みの全銘柄を再エンリッチします。
type RefreshUsecase struct {
	repo      StockRepository
	scheduler JobScheduler
	enricher  Enricher
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
// scheduler と enricher は利用するメソッドに応じてどちらかが nil でも構いません。
func NewRefreshUsecase(repo StockRepository, scheduler JobScheduler, enricher Enricher) *RefreshUsecase {
	return &RefreshUsecase{repo: repo, scheduler: scheduler, enricher: enricher}
}

// ScheduleAll は全銘柄のエンリッチメントジョブを登録し、登録できた件数を返します。
func (u *RefreshUsecase) ScheduleAll(ctx context.Context) (int, error) {
	ids, err := u.repo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	scheduled := 0
	for _, id := range ids {
		if err := u.scheduler.Schedule(ctx, id); err != nil {
			slog.Warn("failed to schedule refresh", "stock_id", id, "error", err)
			continue
		}
		scheduled++
	}
	slog.Info("refresh scheduled", "total", len(ids), "scheduled", scheduled)
	return scheduled, nil
}

// RefreshAll は全銘柄を順番にエンリッチします。
// 1銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄へ進みます。
func (u *RefreshUsecase) RefreshAll(ctx context.Context) error {
	ids, err := u.repo.ListIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.enricher.Enrich(ctx, id); err != nil {
			slog.Error("failed to refresh stock", "stock_id", id, "error", err)
			continue
		}
	}
	return nil
}
