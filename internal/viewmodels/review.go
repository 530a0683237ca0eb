package viewmodels

import (
	"context"
	"errors"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// ApplicantView - все, что наниматель видит при разборе отклика:
// сам отклик, профиль соискателя и его портфолио (если есть)
type ApplicantView struct {
	Application models.Application `json:"application"`
	Seeker      models.Profile     `json:"seeker"`
	Portfolio   *models.Portfolio  `json:"portfolio,omitempty"`
}

// ReviewViewModel - разбор отклика нанимателем. Первое открытие
// pending-отклика автоматически переводит его в reviewed.
type ReviewViewModel struct {
	mount
	gw      gateway.Gateway
	hirerID string

	view *ApplicantView
}

func NewReviewViewModel(gw gateway.Gateway, hirerID string) *ReviewViewModel {
	return &ReviewViewModel{gw: gw, hirerID: hirerID}
}

// Load открывает отклик на разбор. Побочный эффект открытия:
// ровно один переход pending -> reviewed; повторные открытия
// и терминальные статусы новых записей статуса не порождают.
func (vm *ReviewViewModel) Load(ctx context.Context, applicationID string) (*ApplicantView, error) {
	var app models.Application
	err := vm.gw.Table("applications").SelectOne(ctx, &app, gateway.Eq("id", applicationID))
	if err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.ErrGateway(err, "review")
	}

	if err := vm.authorize(ctx, app.JobID); err != nil {
		return nil, err
	}

	if app.Status == models.ApplicationStatusPending {
		patch := map[string]any{"status": string(models.ApplicationStatusReviewed)}
		if err := vm.gw.Table("applications").Update(ctx, patch, gateway.Eq("id", app.ID)); err != nil {
			// Неудавшийся автопереход не мешает разбору - статус
			// перещелкнется при следующем открытии
			logger.CtxWarn(ctx, "Автопереход pending->reviewed не прошел", "application_id", app.ID, "error", err)
		} else {
			app.Status = models.ApplicationStatusReviewed
		}
	}

	view := &ApplicantView{Application: app}

	if err := vm.gw.Table("profiles").SelectOne(ctx, &view.Seeker, gateway.Eq("id", app.SeekerID)); err != nil {
		if !errors.Is(err, gateway.ErrNoRows) {
			return nil, apperrors.ErrGateway(err, "review")
		}
	}

	var portfolio models.Portfolio
	pErr := vm.gw.Table("portfolios").SelectOne(ctx, &portfolio, gateway.Eq("user_id", app.SeekerID))
	switch {
	case pErr == nil:
		view.Portfolio = &portfolio
	case !errors.Is(pErr, gateway.ErrNoRows):
		logger.CtxWarn(ctx, "Не удалось загрузить портфолио соискателя", "error", pErr)
	}

	vm.update(func() { vm.view = view })
	return view, nil
}

// SetStatus - явное решение нанимателя: accepted либо rejected
func (vm *ReviewViewModel) SetStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error {
	if status != models.ApplicationStatusAccepted && status != models.ApplicationStatusRejected {
		return apperrors.ErrInvalidStatus("review", "status must be accepted or rejected")
	}

	var app models.Application
	err := vm.gw.Table("applications").SelectOne(ctx, &app, gateway.Eq("id", applicationID))
	if err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.ErrGateway(err, "review")
	}
	if err := vm.authorize(ctx, app.JobID); err != nil {
		return err
	}

	patch := map[string]any{"status": string(status)}
	if err := vm.gw.Table("applications").Update(ctx, patch, gateway.Eq("id", applicationID)); err != nil {
		return apperrors.ErrGateway(err, "review")
	}

	vm.update(func() {
		if vm.view != nil && vm.view.Application.ID == applicationID {
			vm.view.Application.Status = status
		}
	})
	return nil
}

// authorize проверяет, что вакансия отклика принадлежит нанимателю
func (vm *ReviewViewModel) authorize(ctx context.Context, jobID string) error {
	var job models.Job
	err := vm.gw.Table("jobs").SelectOne(ctx, &job, gateway.Eq("id", jobID))
	if err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.ErrGateway(err, "review")
	}
	if job.HirerID != vm.hirerID {
		return apperrors.ErrNotJobOwner
	}
	return nil
}
