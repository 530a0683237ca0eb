package viewmodels

import (
	"context"
	"errors"
	"sync"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// AdminStats - счетчики админ-панели, все head-only
type AdminStats struct {
	TotalUsers   int64 `json:"total_users"`
	Seekers      int64 `json:"seekers"`
	Hirers       int64 `json:"hirers"`
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
	Messages     int64 `json:"messages"`
}

// AdminViewModel - админ-панель: пользователи, вакансии, сообщения
// обратной связи и счетчики. Каскады удаления выполняются явно
// на клиенте, по шагам (хранилище само каскад не гарантирует).
type AdminViewModel struct {
	mount
	gw gateway.Gateway

	stats    AdminStats
	users    []models.Profile
	jobs     []models.Job
	messages []models.ContactMessage
}

func NewAdminViewModel(gw gateway.Gateway) *AdminViewModel {
	return &AdminViewModel{gw: gw}
}

// Load загружает панель. Списки и счетчики независимы: отказ
// некритичной части (сообщения, отдельный счетчик) логируется
// и не валит остальное.
func (vm *AdminViewModel) Load(ctx context.Context) error {
	var users []models.Profile
	if err := vm.gw.Table("profiles").Select(ctx, &users, gateway.OrderBy("created_at", true)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}

	var jobs []models.Job
	if err := vm.gw.Table("jobs").Select(ctx, &jobs, gateway.OrderBy("created_at", true)); err != nil {
		logger.CtxWarn(ctx, "Не удалось загрузить вакансии для админ-панели", "error", err)
	}

	var messages []models.ContactMessage
	if err := vm.gw.Table("contact_messages").Select(ctx, &messages, gateway.OrderBy("created_at", true)); err != nil {
		logger.CtxWarn(ctx, "Не удалось загрузить сообщения обратной связи", "error", err)
	}

	stats := vm.countStats(ctx)

	vm.update(func() {
		vm.users = users
		vm.jobs = jobs
		vm.messages = messages
		vm.stats = stats
	})
	return nil
}

func (vm *AdminViewModel) countStats(ctx context.Context) AdminStats {
	var stats AdminStats
	var wg sync.WaitGroup

	count := func(dst *int64, table string, opts ...gateway.QueryOption) {
		defer wg.Done()
		n, err := vm.gw.Table(table).Count(ctx, opts...)
		if err != nil {
			logger.CtxWarn(ctx, "Счетчик админ-панели не посчитался", "table", table, "error", err)
			return
		}
		*dst = n
	}

	wg.Add(6)
	go count(&stats.TotalUsers, "profiles")
	go count(&stats.Seekers, "profiles", gateway.Eq("role", "seeker"))
	go count(&stats.Hirers, "profiles", gateway.Eq("role", "hirer"))
	go count(&stats.Jobs, "jobs")
	go count(&stats.Applications, "applications")
	go count(&stats.Messages, "contact_messages")
	wg.Wait()
	return stats
}

// Stats возвращает счетчики панели
func (vm *AdminViewModel) Stats() AdminStats {
	var s AdminStats
	vm.read(func() { s = vm.stats })
	return s
}

// Users возвращает копию списка пользователей
func (vm *AdminViewModel) Users() []models.Profile {
	var out []models.Profile
	vm.read(func() { out = append([]models.Profile(nil), vm.users...) })
	return out
}

// Jobs возвращает копию списка вакансий
func (vm *AdminViewModel) Jobs() []models.Job {
	var out []models.Job
	vm.read(func() { out = append([]models.Job(nil), vm.jobs...) })
	return out
}

// Messages возвращает копию списка сообщений
func (vm *AdminViewModel) Messages() []models.ContactMessage {
	var out []models.ContactMessage
	vm.read(func() { out = append([]models.ContactMessage(nil), vm.messages...) })
	return out
}

// SetUserRole меняет роль пользователя
func (vm *AdminViewModel) SetUserRole(ctx context.Context, userID string, role models.UserRole) error {
	if !models.ValidRole(role) {
		return apperrors.ErrInvalidUserRole
	}
	patch := map[string]any{"role": string(role)}
	if err := vm.gw.Table("profiles").Update(ctx, patch, gateway.Eq("id", userID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}
	vm.update(func() {
		for i := range vm.users {
			if vm.users[i].ID == userID {
				vm.users[i].Role = role
			}
		}
	})
	return nil
}

// DeleteUser удаляет пользователя с явным клиентским каскадом:
// отклики -> портфолио -> вакансии (с их откликами) -> профиль.
// adminID нужен, чтобы админ не удалил сам себя.
func (vm *AdminViewModel) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return apperrors.ErrCannotModifySelf
	}

	var user models.Profile
	if err := vm.gw.Table("profiles").SelectOne(ctx, &user, gateway.Eq("id", userID)); err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrGateway(err, "admin")
	}

	if err := vm.gw.Table("applications").Delete(ctx, gateway.Eq("seeker_id", userID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}
	if err := vm.gw.Table("portfolios").Delete(ctx, gateway.Eq("user_id", userID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}

	// У нанимателя сперва зачищаются отклики на его вакансии
	var jobs []models.Job
	if err := vm.gw.Table("jobs").Select(ctx, &jobs, gateway.Eq("hirer_id", userID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}
	for _, job := range jobs {
		if err := vm.gw.Table("applications").Delete(ctx, gateway.Eq("job_id", job.ID)); err != nil {
			return apperrors.ErrGateway(err, "admin")
		}
	}
	if len(jobs) > 0 {
		if err := vm.gw.Table("jobs").Delete(ctx, gateway.Eq("hirer_id", userID)); err != nil {
			return apperrors.ErrGateway(err, "admin")
		}
	}

	if err := vm.gw.Table("profiles").Delete(ctx, gateway.Eq("id", userID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}

	// Локальный список обновляется без полной перезагрузки
	vm.update(func() {
		users := make([]models.Profile, 0, len(vm.users))
		for _, u := range vm.users {
			if u.ID != userID {
				users = append(users, u)
			}
		}
		vm.users = users
	})
	return nil
}

// DeleteJob удаляет вакансию и отклики на нее
func (vm *AdminViewModel) DeleteJob(ctx context.Context, jobID string) error {
	if err := vm.gw.Table("applications").Delete(ctx, gateway.Eq("job_id", jobID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}
	if err := vm.gw.Table("jobs").Delete(ctx, gateway.Eq("id", jobID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}
	vm.update(func() {
		jobs := make([]models.Job, 0, len(vm.jobs))
		for _, j := range vm.jobs {
			if j.ID != jobID {
				jobs = append(jobs, j)
			}
		}
		vm.jobs = jobs
	})
	return nil
}

// DeleteMessage удаляет сообщение обратной связи
func (vm *AdminViewModel) DeleteMessage(ctx context.Context, messageID string) error {
	if err := vm.gw.Table("contact_messages").Delete(ctx, gateway.Eq("id", messageID)); err != nil {
		return apperrors.ErrGateway(err, "admin")
	}
	vm.update(func() {
		messages := make([]models.ContactMessage, 0, len(vm.messages))
		for _, m := range vm.messages {
			if m.ID != messageID {
				messages = append(messages, m)
			}
		}
		vm.messages = messages
	})
	return nil
}

// CreateJob публикует вакансию от имени указанного нанимателя
func (vm *AdminViewModel) CreateJob(ctx context.Context, job models.Job) (*models.Job, error) {
	if job.Title == "" {
		return nil, apperrors.ValidationError("title is required")
	}
	if job.HirerID == "" {
		return nil, apperrors.ValidationError("hirer_id is required")
	}
	if err := vm.gw.Table("jobs").Insert(ctx, &job); err != nil {
		return nil, apperrors.ErrGateway(err, "admin")
	}
	vm.update(func() { vm.jobs = append([]models.Job{job}, vm.jobs...) })
	return &job, nil
}
