package viewmodels

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// HirerStats - карточки статистики дашборда нанимателя
type HirerStats struct {
	TotalJobs    int64 `json:"total_jobs"`
	ActiveJobs   int64 `json:"active_jobs"`
	Applications int64 `json:"applications"`
	Pending      int64 `json:"pending"`
}

// HirerViewModel - дашборд нанимателя: его вакансии, входящие отклики
// и счетчики. Счетчики считаются head-only запросами параллельно
// с выборкой строк; отказ одного счетчика не валит остальные.
type HirerViewModel struct {
	mount
	gw      gateway.Gateway
	hirerID string

	stats HirerStats
	jobs  []models.Job
	inbox []models.Application
}

func NewHirerViewModel(gw gateway.Gateway, hirerID string) *HirerViewModel {
	return &HirerViewModel{gw: gw, hirerID: hirerID}
}

// Load загружает дашборд: вакансии, отклики по ним и счетчики
func (vm *HirerViewModel) Load(ctx context.Context) error {
	var jobs []models.Job
	err := vm.gw.Table("jobs").Select(ctx, &jobs,
		gateway.Eq("hirer_id", vm.hirerID),
		gateway.OrderBy("created_at", true),
	)
	if err != nil {
		return apperrors.ErrGateway(err, "hirer")
	}

	inbox := make([]models.Application, 0)
	for _, job := range jobs {
		var apps []models.Application
		if aErr := vm.gw.Table("applications").Select(ctx, &apps,
			gateway.Eq("job_id", job.ID),
			gateway.OrderBy("created_at", true),
		); aErr != nil {
			logger.CtxWarn(ctx, "Не удалось загрузить отклики вакансии", "job_id", job.ID, "error", aErr)
			continue
		}
		inbox = append(inbox, apps...)
	}

	stats := vm.countStats(ctx, jobs, inbox)

	vm.update(func() {
		vm.jobs = jobs
		vm.inbox = inbox
		vm.stats = stats
	})
	return nil
}

// countStats выполняет head-only счетчики параллельно; некритичный
// отказ деградирует в ноль
func (vm *HirerViewModel) countStats(ctx context.Context, jobs []models.Job, inbox []models.Application) HirerStats {
	var stats HirerStats
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

	wg.Add(2)
	go count(&stats.TotalJobs, "jobs", gateway.Eq("hirer_id", vm.hirerID))
	go count(&stats.ActiveJobs, "jobs", gateway.Eq("hirer_id", vm.hirerID), gateway.Eq("is_active", true))
	wg.Wait()

	// Отклики фильтруются по принадлежности вакансий, поэтому
	// считаются из уже загруженного inbox
	stats.Applications = int64(len(inbox))
	for _, app := range inbox {
		if app.Status == models.ApplicationStatusPending {
			stats.Pending++
		}
	}
	return stats
}

// Watch перезагружает дашборд на каждое событие по откликам
// и собственным вакансиям (вариант "перечитать целиком" - для
// агрегатов он проще и безопаснее точечного патча)
func (vm *HirerViewModel) Watch(ctx context.Context) error {
	refetch := func(gateway.ChangeEvent) {
		if err := vm.Load(ctx); err != nil {
			logger.CtxWarn(ctx, "Перезагрузка дашборда нанимателя не удалась", "error", err)
		}
	}

	sub, err := vm.gw.Channel("hirer-dashboard").
		On(gateway.ChangeSpec{Event: gateway.ChangeAll, Table: "applications"}, refetch).
		On(gateway.ChangeSpec{
			Event:  gateway.ChangeAll,
			Table:  "jobs",
			Filter: fmt.Sprintf("hirer_id=eq.%s", vm.hirerID),
		}, refetch).
		Subscribe()
	if err != nil {
		return apperrors.ErrGateway(err, "hirer")
	}
	vm.attach(sub)
	return nil
}

// Stats возвращает счетчики дашборда
func (vm *HirerViewModel) Stats() HirerStats {
	var s HirerStats
	vm.read(func() { s = vm.stats })
	return s
}

// Jobs возвращает копию списка вакансий нанимателя
func (vm *HirerViewModel) Jobs() []models.Job {
	var out []models.Job
	vm.read(func() { out = append([]models.Job(nil), vm.jobs...) })
	return out
}

// Inbox возвращает копию входящих откликов
func (vm *HirerViewModel) Inbox() []models.Application {
	var out []models.Application
	vm.read(func() { out = append([]models.Application(nil), vm.inbox...) })
	return out
}

// PostJob публикует вакансию от имени нанимателя
func (vm *HirerViewModel) PostJob(ctx context.Context, job models.Job) (*models.Job, error) {
	if job.Title == "" {
		return nil, apperrors.ValidationError("title is required")
	}
	job.HirerID = vm.hirerID
	job.IsActive = true

	if err := vm.gw.Table("jobs").Insert(ctx, &job); err != nil {
		return nil, apperrors.ErrGateway(err, "hirer")
	}
	return &job, nil
}

// UpdateJob применяет patch к собственной вакансии
func (vm *HirerViewModel) UpdateJob(ctx context.Context, jobID string, patch map[string]any) error {
	if err := vm.ownJob(ctx, jobID); err != nil {
		return err
	}
	err := vm.gw.Table("jobs").Update(ctx, patch, gateway.Eq("id", jobID))
	if err != nil {
		return apperrors.ErrGateway(err, "hirer")
	}
	return nil
}

// DeleteJob удаляет собственную вакансию вместе с откликами на нее.
// Подтверждение спрашивает слой представления.
func (vm *HirerViewModel) DeleteJob(ctx context.Context, jobID string) error {
	if err := vm.ownJob(ctx, jobID); err != nil {
		return err
	}
	if err := vm.gw.Table("applications").Delete(ctx, gateway.Eq("job_id", jobID)); err != nil {
		return apperrors.ErrGateway(err, "hirer")
	}
	if err := vm.gw.Table("jobs").Delete(ctx, gateway.Eq("id", jobID)); err != nil {
		return apperrors.ErrGateway(err, "hirer")
	}
	return nil
}

func (vm *HirerViewModel) ownJob(ctx context.Context, jobID string) error {
	var job models.Job
	err := vm.gw.Table("jobs").SelectOne(ctx, &job, gateway.Eq("id", jobID))
	if err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.ErrGateway(err, "hirer")
	}
	if job.HirerID != vm.hirerID {
		return apperrors.ErrNotJobOwner
	}
	return nil
}
