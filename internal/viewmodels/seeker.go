package viewmodels

import (
	"context"
	"fmt"
	"sync"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/pkg/apperrors"
)

// SeekerStats - карточки статистики дашборда соискателя
type SeekerStats struct {
	Applications int64 `json:"applications"`
	Pending      int64 `json:"pending"`
	Accepted     int64 `json:"accepted"`
	HasPortfolio bool  `json:"has_portfolio"`
	ActiveJobs   int64 `json:"active_jobs"`
}

// SeekerViewModel - дашборд соискателя: только счетчики,
// все head-only и параллельно
type SeekerViewModel struct {
	mount
	gw       gateway.Gateway
	seekerID string

	stats SeekerStats
}

func NewSeekerViewModel(gw gateway.Gateway, seekerID string) *SeekerViewModel {
	return &SeekerViewModel{gw: gw, seekerID: seekerID}
}

// Load считает счетчики. Отказавший счетчик логируется
// и остается нулем, остальные не страдают.
func (vm *SeekerViewModel) Load(ctx context.Context) error {
	var stats SeekerStats
	var wg sync.WaitGroup

	count := func(dst *int64, table string, opts ...gateway.QueryOption) {
		defer wg.Done()
		n, err := vm.gw.Table(table).Count(ctx, opts...)
		if err != nil {
			logger.CtxWarn(ctx, "Счетчик дашборда не посчитался", "table", table, "error", err)
			return
		}
		*dst = n
	}

	var portfolios int64
	wg.Add(5)
	go count(&stats.Applications, "applications", gateway.Eq("seeker_id", vm.seekerID))
	go count(&stats.Pending, "applications", gateway.Eq("seeker_id", vm.seekerID), gateway.Eq("status", "pending"))
	go count(&stats.Accepted, "applications", gateway.Eq("seeker_id", vm.seekerID), gateway.Eq("status", "accepted"))
	go count(&portfolios, "portfolios", gateway.Eq("user_id", vm.seekerID))
	go count(&stats.ActiveJobs, "jobs", gateway.Eq("is_active", true))
	wg.Wait()
	stats.HasPortfolio = portfolios > 0

	vm.update(func() { vm.stats = stats })
	return nil
}

// Watch перечитывает счетчики на каждое событие по собственным откликам
func (vm *SeekerViewModel) Watch(ctx context.Context) error {
	sub, err := vm.gw.Channel("seeker-dashboard").
		On(gateway.ChangeSpec{
			Event:  gateway.ChangeAll,
			Table:  "applications",
			Filter: fmt.Sprintf("seeker_id=eq.%s", vm.seekerID),
		}, func(gateway.ChangeEvent) {
			if err := vm.Load(ctx); err != nil {
				logger.CtxWarn(ctx, "Перезагрузка дашборда соискателя не удалась", "error", err)
			}
		}).
		Subscribe()
	if err != nil {
		return apperrors.ErrGateway(err, "seeker")
	}
	vm.attach(sub)
	return nil
}

// Stats возвращает текущие счетчики
func (vm *SeekerViewModel) Stats() SeekerStats {
	var s SeekerStats
	vm.read(func() { s = vm.stats })
	return s
}
