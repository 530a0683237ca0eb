package viewmodels

import (
	"context"
	"errors"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// settingsColumns - поля профиля, которые владелец может менять сам.
// Email, роль и пароль сюда не входят: email и пароль живут
// в аутентификационном флоу, роль меняет только админ.
var settingsColumns = map[string]bool{
	"full_name":  true,
	"title":      true,
	"bio":        true,
	"avatar_url": true,
	"location":   true,
	"website":    true,
	"github":     true,
	"linkedin":   true,
	"twitter":    true,
}

// SettingsViewModel - экран настроек: просмотр и правка
// собственной строки профиля
type SettingsViewModel struct {
	mount
	gw     gateway.Gateway
	userID string

	profile models.Profile
}

func NewSettingsViewModel(gw gateway.Gateway, userID string) *SettingsViewModel {
	return &SettingsViewModel{gw: gw, userID: userID}
}

// Load читает собственный профиль. Отсутствие строки здесь ошибка:
// до экрана настроек без профиля не добраться.
func (vm *SettingsViewModel) Load(ctx context.Context) error {
	var p models.Profile
	err := vm.gw.Table("profiles").SelectOne(ctx, &p, gateway.Eq("id", vm.userID))
	switch {
	case errors.Is(err, gateway.ErrNoRows):
		return apperrors.ErrNotFound(err)
	case err != nil:
		return apperrors.ErrGateway(err, "settings")
	}

	vm.update(func() { vm.profile = p })
	return nil
}

// Save применяет patch к собственной строке профиля и возвращает
// подтвержденное сервером состояние. Колонки вне списка
// редактируемых отклоняются целиком, без частичного применения.
func (vm *SettingsViewModel) Save(ctx context.Context, patch map[string]any) (*models.Profile, error) {
	if len(patch) == 0 {
		var p models.Profile
		vm.read(func() { p = vm.profile })
		return &p, nil
	}
	for col := range patch {
		if !settingsColumns[col] {
			return nil, apperrors.ErrInvalidOperation("settings", "field is not editable: "+col)
		}
	}

	err := vm.gw.Table("profiles").Update(ctx, patch, gateway.Eq("id", vm.userID))
	if err != nil {
		return nil, apperrors.ErrGateway(err, "settings")
	}

	var saved models.Profile
	if err := vm.gw.Table("profiles").SelectOne(ctx, &saved, gateway.Eq("id", vm.userID)); err != nil {
		return nil, apperrors.ErrGateway(err, "settings")
	}
	vm.update(func() { vm.profile = saved })
	return &saved, nil
}

// Profile возвращает текущее локальное состояние экрана
func (vm *SettingsViewModel) Profile() models.Profile {
	var p models.Profile
	vm.read(func() { p = vm.profile })
	return p
}
