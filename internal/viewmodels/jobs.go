package viewmodels

import (
	"context"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// JobsViewModel - публичная лента активных вакансий для соискателя
// плюс операция отклика. Лента обновляется realtime-событиями
// через чистый редьюсер.
type JobsViewModel struct {
	mount
	gw gateway.Gateway

	jobs []models.Job
}

func NewJobsViewModel(gw gateway.Gateway) *JobsViewModel {
	return &JobsViewModel{gw: gw}
}

// Load загружает активные вакансии, свежие первыми
func (vm *JobsViewModel) Load(ctx context.Context) error {
	var jobs []models.Job
	err := vm.gw.Table("jobs").Select(ctx, &jobs,
		gateway.Eq("is_active", true),
		gateway.OrderBy("created_at", true),
	)
	if err != nil {
		return apperrors.ErrGateway(err, "jobs")
	}
	vm.update(func() { vm.jobs = jobs })
	return nil
}

// Watch открывает подписку на изменения вакансий. Канал намеренно
// без фильтра по is_active: деактивация приходит UPDATE-ом со
// снимком is_active=false, серверный фильтр отрезал бы именно его.
// Предикат ленты перепроверяет редьюсер.
func (vm *JobsViewModel) Watch() error {
	sub, err := vm.gw.Channel("job-listings").
		On(gateway.ChangeSpec{
			Event: gateway.ChangeAll,
			Table: "jobs",
		}, vm.onChange).
		Subscribe()
	if err != nil {
		return apperrors.ErrGateway(err, "jobs")
	}
	vm.attach(sub)
	return nil
}

func (vm *JobsViewModel) onChange(e gateway.ChangeEvent) {
	vm.update(func() { vm.jobs = reduceJobs(vm.jobs, e) })
}

// reduceJobs - чистый редьюсер ленты: (текущие строки, событие) -> новые
// строки. Мерж идемпотентен по id: повторная доставка того же события
// дает то же состояние.
func reduceJobs(jobs []models.Job, e gateway.ChangeEvent) []models.Job {
	var row models.Job
	if err := e.Row(&row); err != nil || row.ID == "" {
		return jobs
	}

	switch e.Type {
	case gateway.ChangeInsert, gateway.ChangeUpdate:
		if !row.IsActive {
			return removeJob(jobs, row.ID)
		}
		for i := range jobs {
			if jobs[i].ID == row.ID {
				out := append([]models.Job(nil), jobs...)
				out[i] = row
				return out
			}
		}
		if e.Type == gateway.ChangeUpdate {
			// Обновление невидимой строки: в ленту не добавляем
			return jobs
		}
		out := make([]models.Job, 0, len(jobs)+1)
		out = append(out, row)
		return append(out, jobs...)
	case gateway.ChangeDelete:
		return removeJob(jobs, row.ID)
	}
	return jobs
}

func removeJob(jobs []models.Job, id string) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ID != id {
			out = append(out, j)
		}
	}
	return out
}

// Jobs возвращает копию текущей ленты
func (vm *JobsViewModel) Jobs() []models.Job {
	var out []models.Job
	vm.read(func() { out = append([]models.Job(nil), vm.jobs...) })
	return out
}

// Apply - отклик соискателя на вакансию. Два предварительных
// раунд-трипа (портфолио есть, отклика нет) - это UX-проверки;
// от гонки двух вкладок страхует уникальный индекс хранилища.
func (vm *JobsViewModel) Apply(ctx context.Context, seekerID, jobID, coverLetter string) error {
	hasPortfolio, err := vm.gw.Table("portfolios").Count(ctx, gateway.Eq("user_id", seekerID))
	if err != nil {
		return apperrors.ErrGateway(err, "applications")
	}
	if hasPortfolio == 0 {
		return apperrors.ErrPortfolioRequired
	}

	existing, err := vm.gw.Table("applications").Count(ctx,
		gateway.Eq("job_id", jobID),
		gateway.Eq("seeker_id", seekerID),
	)
	if err != nil {
		return apperrors.ErrGateway(err, "applications")
	}
	if existing > 0 {
		return apperrors.ErrAlreadyApplied
	}

	app := models.Application{
		JobID:       jobID,
		SeekerID:    seekerID,
		CoverLetter: coverLetter,
		Status:      models.ApplicationStatusPending,
	}
	if err := vm.gw.Table("applications").Insert(ctx, &app); err != nil {
		// Проигранная гонка двух вкладок упирается в уникальный
		// индекс (job_id, seeker_id) - перечитываем, чтобы отличить
		// конфликт от прочих ошибок
		if n, cntErr := vm.gw.Table("applications").Count(ctx,
			gateway.Eq("job_id", jobID),
			gateway.Eq("seeker_id", seekerID),
		); cntErr == nil && n > 0 {
			return apperrors.ErrAlreadyApplied
		}
		logger.CtxWarn(ctx, "Вставка отклика отклонена хранилищем", "error", err)
		return apperrors.ErrGateway(err, "applications")
	}
	return nil
}
