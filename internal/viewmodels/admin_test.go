package viewmodels

import (
	"context"
	"testing"

	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func tableCount(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&n).Error)
	return n
}

func TestAdminLoadAndStats(t *testing.T) {
	gw, db := newTestGateway(t)
	seedProfile(t, db, models.UserRoleAdmin)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)

	vm := NewAdminViewModel(gw)
	defer vm.Close()
	require.NoError(t, vm.Load(context.Background()))

	stats := vm.Stats()
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.Seekers)
	assert.EqualValues(t, 1, stats.Hirers)
	assert.EqualValues(t, 1, stats.Jobs)
	assert.EqualValues(t, 1, stats.Applications)
	assert.Len(t, vm.Users(), 3)
	assert.Len(t, vm.Jobs(), 1)
}

// Удаление соискателя зачищает его отклики и портфолио;
// локальный список обновляется без перезагрузки
func TestAdminDeleteSeekerCascade(t *testing.T) {
	gw, db := newTestGateway(t)
	admin := seedProfile(t, db, models.UserRoleAdmin)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	seedPortfolio(t, db, seeker.ID)
	seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)
	ctx := context.Background()

	vm := NewAdminViewModel(gw)
	defer vm.Close()
	require.NoError(t, vm.Load(ctx))
	require.Len(t, vm.Users(), 3)

	require.NoError(t, vm.DeleteUser(ctx, admin.ID, seeker.ID))

	assert.EqualValues(t, 0, tableCount(t, db, &models.Profile{}, "id = ?", seeker.ID))
	assert.EqualValues(t, 0, tableCount(t, db, &models.Portfolio{}, "user_id = ?", seeker.ID))
	assert.EqualValues(t, 0, tableCount(t, db, &models.Application{}, "seeker_id = ?", seeker.ID))
	assert.EqualValues(t, 1, tableCount(t, db, &models.Job{}, ""), "вакансии нанимателя не задеты")

	for _, u := range vm.Users() {
		assert.NotEqual(t, seeker.ID, u.ID, "список обновился без перезагрузки")
	}
	require.Len(t, vm.Users(), 2)
}

// Удаление нанимателя уводит его вакансии вместе с чужими откликами на них
func TestAdminDeleteHirerCascade(t *testing.T) {
	gw, db := newTestGateway(t)
	admin := seedProfile(t, db, models.UserRoleAdmin)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	job := seedJob(t, db, hirer.ID, true)
	other := seedJob(t, db, hirer.ID, false)
	seedApplication(t, db, job.ID, seeker.ID, models.ApplicationStatusPending)
	seedApplication(t, db, other.ID, seeker.ID, models.ApplicationStatusAccepted)
	ctx := context.Background()

	vm := NewAdminViewModel(gw)
	defer vm.Close()
	require.NoError(t, vm.Load(ctx))

	require.NoError(t, vm.DeleteUser(ctx, admin.ID, hirer.ID))

	assert.EqualValues(t, 0, tableCount(t, db, &models.Job{}, "hirer_id = ?", hirer.ID))
	assert.EqualValues(t, 0, tableCount(t, db, &models.Application{}, ""), "отклики на вакансии нанимателя зачищены")
	assert.EqualValues(t, 1, tableCount(t, db, &models.Profile{}, "id = ?", seeker.ID), "соискатель не задет")
}

func TestAdminDeleteUserGuards(t *testing.T) {
	gw, db := newTestGateway(t)
	admin := seedProfile(t, db, models.UserRoleAdmin)
	ctx := context.Background()

	vm := NewAdminViewModel(gw)
	defer vm.Close()

	err := vm.DeleteUser(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrCannotModifySelf, "себя удалить нельзя")

	require.Error(t, vm.DeleteUser(ctx, admin.ID, "no-such-user"))
}

func TestAdminSetUserRole(t *testing.T) {
	gw, db := newTestGateway(t)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	ctx := context.Background()

	vm := NewAdminViewModel(gw)
	defer vm.Close()
	require.NoError(t, vm.Load(ctx))

	require.NoError(t, vm.SetUserRole(ctx, seeker.ID, models.UserRoleHirer))

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", seeker.ID).Error)
	assert.Equal(t, models.UserRoleHirer, stored.Role)

	users := vm.Users()
	require.Len(t, users, 1)
	assert.Equal(t, models.UserRoleHirer, users[0].Role, "локальный список отражает смену роли")

	err := vm.SetUserRole(ctx, seeker.ID, "superuser")
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestAdminJobManagement(t *testing.T) {
	gw, db := newTestGateway(t)
	hirer := seedProfile(t, db, models.UserRoleHirer)
	seeker := seedProfile(t, db, models.UserRoleSeeker)
	seedPortfolio(t, db, seeker.ID)
	ctx := context.Background()

	vm := NewAdminViewModel(gw)
	defer vm.Close()
	require.NoError(t, vm.Load(ctx))

	created, err := vm.CreateJob(ctx, models.Job{Title: "Platform Engineer", HirerID: hirer.ID, IsActive: true})
	require.NoError(t, err)
	require.Len(t, vm.Jobs(), 1)

	_, err = vm.CreateJob(ctx, models.Job{HirerID: hirer.ID})
	require.Error(t, err, "вакансия без названия отклоняется")
	_, err = vm.CreateJob(ctx, models.Job{Title: "No owner"})
	require.Error(t, err, "вакансия без нанимателя отклоняется")

	seedApplication(t, db, created.ID, seeker.ID, models.ApplicationStatusPending)

	require.NoError(t, vm.DeleteJob(ctx, created.ID))
	assert.EqualValues(t, 0, tableCount(t, db, &models.Job{}, "id = ?", created.ID))
	assert.EqualValues(t, 0, tableCount(t, db, &models.Application{}, "job_id = ?", created.ID))
	assert.Empty(t, vm.Jobs())
}

func TestAdminDeleteMessage(t *testing.T) {
	gw, db := newTestGateway(t)
	msg := models.ContactMessage{Name: "Visitor", Email: "v@test.com", Message: "Hello"}
	require.NoError(t, db.Create(&msg).Error)
	ctx := context.Background()

	vm := NewAdminViewModel(gw)
	defer vm.Close()
	require.NoError(t, vm.Load(ctx))
	require.Len(t, vm.Messages(), 1)

	require.NoError(t, vm.DeleteMessage(ctx, msg.ID))
	assert.Empty(t, vm.Messages())
	assert.EqualValues(t, 0, tableCount(t, db, &models.ContactMessage{}, ""))
}
