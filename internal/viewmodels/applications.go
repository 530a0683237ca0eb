package viewmodels

import (
	"context"
	"errors"
	"fmt"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// ApplicationRow - отклик вместе с витринными полями вакансии
type ApplicationRow struct {
	models.Application
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
}

// ApplicationsViewModel - трекер откликов соискателя.
// Статусы обновляются realtime-событиями: UPDATE патчит строку,
// DELETE убирает ее из списка.
type ApplicationsViewModel struct {
	mount
	gw       gateway.Gateway
	seekerID string

	rows []ApplicationRow
}

func NewApplicationsViewModel(gw gateway.Gateway, seekerID string) *ApplicationsViewModel {
	return &ApplicationsViewModel{gw: gw, seekerID: seekerID}
}

// Load читает отклики соискателя и дотягивает витринные поля вакансий.
// Пропавшая вакансия не валит загрузку - строка остается без названия.
func (vm *ApplicationsViewModel) Load(ctx context.Context) error {
	var apps []models.Application
	err := vm.gw.Table("applications").Select(ctx, &apps,
		gateway.Eq("seeker_id", vm.seekerID),
		gateway.OrderBy("created_at", true),
	)
	if err != nil {
		return apperrors.ErrGateway(err, "applications")
	}

	rows := make([]ApplicationRow, 0, len(apps))
	for _, app := range apps {
		row := ApplicationRow{Application: app}
		var job models.Job
		jErr := vm.gw.Table("jobs").SelectOne(ctx, &job, gateway.Eq("id", app.JobID))
		switch {
		case jErr == nil:
			row.JobTitle = job.Title
			row.CompanyName = job.CompanyName
		case !errors.Is(jErr, gateway.ErrNoRows):
			logger.CtxWarn(ctx, "Не удалось загрузить вакансию отклика", "job_id", app.JobID, "error", jErr)
		}
		rows = append(rows, row)
	}

	vm.update(func() { vm.rows = rows })
	return nil
}

// Watch подписывается на изменения собственных откликов
func (vm *ApplicationsViewModel) Watch() error {
	sub, err := vm.gw.Channel("my-applications").
		On(gateway.ChangeSpec{
			Event:  gateway.ChangeAll,
			Table:  "applications",
			Filter: fmt.Sprintf("seeker_id=eq.%s", vm.seekerID),
		}, vm.onChange).
		Subscribe()
	if err != nil {
		return apperrors.ErrGateway(err, "applications")
	}
	vm.attach(sub)
	return nil
}

func (vm *ApplicationsViewModel) onChange(e gateway.ChangeEvent) {
	vm.update(func() { vm.rows = reduceApplications(vm.rows, e) })
}

// reduceApplications - чистый редьюсер трекера. UPDATE заменяет
// мутабельные поля строки, DELETE удаляет, INSERT добавляется
// (витринные поля вакансии подтянет следующий Load). Идемпотентен по id.
func reduceApplications(rows []ApplicationRow, e gateway.ChangeEvent) []ApplicationRow {
	var app models.Application
	if err := e.Row(&app); err != nil || app.ID == "" {
		return rows
	}

	switch e.Type {
	case gateway.ChangeUpdate:
		out := append([]ApplicationRow(nil), rows...)
		for i := range out {
			if out[i].ID == app.ID {
				out[i].Status = app.Status
				out[i].CoverLetter = app.CoverLetter
			}
		}
		return out
	case gateway.ChangeDelete:
		out := make([]ApplicationRow, 0, len(rows))
		for _, r := range rows {
			if r.ID != app.ID {
				out = append(out, r)
			}
		}
		return out
	case gateway.ChangeInsert:
		for _, r := range rows {
			if r.ID == app.ID {
				return rows
			}
		}
		out := make([]ApplicationRow, 0, len(rows)+1)
		out = append(out, ApplicationRow{Application: app})
		return append(out, rows...)
	}
	return rows
}

// Rows возвращает копию текущего списка
func (vm *ApplicationsViewModel) Rows() []ApplicationRow {
	var out []ApplicationRow
	vm.read(func() { out = append([]ApplicationRow(nil), vm.rows...) })
	return out
}

// Withdraw отзывает собственный отклик. Подтверждение у пользователя
// спрашивает слой представления; локальная строка исчезает только
// после успешного удаления на сервере (через DELETE-событие).
func (vm *ApplicationsViewModel) Withdraw(ctx context.Context, applicationID string) error {
	err := vm.gw.Table("applications").Delete(ctx,
		gateway.Eq("id", applicationID),
		gateway.Eq("seeker_id", vm.seekerID),
	)
	if err != nil {
		return apperrors.ErrGateway(err, "applications")
	}
	return nil
}
