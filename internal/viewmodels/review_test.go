package viewmodels

import (
	"context"
	"testing"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countUpdates считает UPDATE-события по таблице откликов
func countUpdates(t *testing.T, gw gateway.Gateway) (*int, gateway.Subscription) {
	t.Helper()
	n := new(int)
	sub, err := gw.Channel("probe").
		On(gateway.ChangeSpec{Event: gateway.ChangeUpdate, Table: "applications"}, func(gateway.ChangeEvent) {
			*n++
		}).
		Subscribe()
	require.NoError(t, err)
	return n, sub
}

// Первое открытие pending-отклика переводит его в reviewed ровно один раз
func TestReviewAutoTransitionOnce(t *testing.T) {
	gw, db := newTestGateway(t)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	app := seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)
	ctx := context.Background()

	updates, sub := countUpdates(t, gw)
	defer sub.Unsubscribe()

	vm := NewReviewViewModel(gw, hirer.ID)
	defer vm.Close()

	view, err := vm.Load(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusReviewed, view.Application.Status)
	assert.Equal(t, seeker.ID, view.Seeker.ID)
	assert.Equal(t, 1, *updates, "автопереход - ровно одна запись статуса")

	// Повторное открытие записей статуса не порождает
	view, err = vm.Load(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusReviewed, view.Application.Status)
	assert.Equal(t, 1, *updates)

	var stored models.Application
	require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusReviewed, stored.Status)
}

// Терминальный статус при открытии не трогается
func TestReviewTerminalStatusUntouched(t *testing.T) {
	gw, db := newTestGateway(t)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	app := seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusAccepted)
	ctx := context.Background()

	updates, sub := countUpdates(t, gw)
	defer sub.Unsubscribe()

	vm := NewReviewViewModel(gw, hirer.ID)
	defer vm.Close()

	view, err := vm.Load(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, view.Application.Status)
	assert.Equal(t, 0, *updates, "терминальный статус записей не порождает")
}

// Чужую вакансию разбирать нельзя
func TestReviewAuthorization(t *testing.T) {
	gw, db := newTestGateway(t)
	owner := seedProfile(t, db, models.UserRoleHirer)
	other := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, owner.ID, true)
	app := seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)
	ctx := context.Background()

	vm := NewReviewViewModel(gw, other.ID)
	defer vm.Close()

	_, err := vm.Load(ctx, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	err = vm.SetStatus(ctx, app.ID, models.ApplicationStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	_, err = vm.Load(ctx, "no-such-application")
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

// SetStatus принимает только терминальные решения
func TestReviewSetStatusValidation(t *testing.T) {
	gw, db := newTestGateway(t)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	app := seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)
	ctx := context.Background()

	vm := NewReviewViewModel(gw, hirer.ID)
	defer vm.Close()

	require.Error(t, vm.SetStatus(ctx, app.ID, models.ApplicationStatusPending))
	require.Error(t, vm.SetStatus(ctx, app.ID, models.ApplicationStatusReviewed))
	require.NoError(t, vm.SetStatus(ctx, app.ID, models.ApplicationStatusRejected))

	var stored models.Application
	require.NoError(t, db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusRejected, stored.Status)
}

// Сквозной путь разбора: pending -> reviewed при открытии,
// accepted решением нанимателя - трекер соискателя видит
// оба перехода без перезагрузки
func TestReviewRoundTrip(t *testing.T) {
	gw, db := newTestGateway(t)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	seedPortfolio(t, db, seeker.ID)
	app := seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)
	ctx := context.Background()

	tracker := NewApplicationsViewModel(gw, seeker.ID)
	defer tracker.Close()
	require.NoError(t, tracker.Load(ctx))
	require.NoError(t, tracker.Watch())

	rows := tracker.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.ApplicationStatusPending, rows[0].Status)
	assert.Equal(t, job.Title, rows[0].JobTitle)

	review := NewReviewViewModel(gw, hirer.ID)
	defer review.Close()

	view, err := review.Load(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Portfolio, "портфолио соискателя подтянуто")

	rows = tracker.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.ApplicationStatusReviewed, rows[0].Status, "трекер увидел reviewed")

	require.NoError(t, review.SetStatus(ctx, app.ID, models.ApplicationStatusAccepted))

	rows = tracker.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.ApplicationStatusAccepted, rows[0].Status, "трекер увидел accepted")
	assert.Equal(t, job.Title, rows[0].JobTitle, "витринные поля пережили патч статуса")
}
