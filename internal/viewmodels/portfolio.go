package viewmodels

import (
	"context"
	"errors"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// PortfolioViewModel - редактор портфолио владельца плюс публичный
// просмотр по id пользователя. Портфолио - синглтон: не больше одной
// строки на пользователя, ключ user_id.
type PortfolioViewModel struct {
	mount
	gw gateway.Gateway

	portfolio models.Portfolio
}

func NewPortfolioViewModel(gw gateway.Gateway) *PortfolioViewModel {
	return &PortfolioViewModel{gw: gw}
}

// defaultPortfolio - пустое состояние редактора для пользователя
// без сохраненного портфолио
func defaultPortfolio(userID string) models.Portfolio {
	return models.Portfolio{
		UserID:     userID,
		Skills:     datatypes.JSONSlice[string]{},
		Projects:   datatypes.JSONSlice[models.Project]{},
		Experience: datatypes.JSONSlice[models.Experience]{},
		Template:   models.TemplateModern,
	}
}

// Load читает портфолио пользователя. Отсутствие строки - не ошибка,
// а "еще не создано": редактор получает значения по умолчанию.
func (vm *PortfolioViewModel) Load(ctx context.Context, userID string) error {
	var p models.Portfolio
	err := vm.gw.Table("portfolios").SelectOne(ctx, &p, gateway.Eq("user_id", userID))
	switch {
	case errors.Is(err, gateway.ErrNoRows):
		p = defaultPortfolio(userID)
	case err != nil:
		return apperrors.ErrGateway(err, "portfolio")
	}

	vm.update(func() { vm.portfolio = p })
	return nil
}

// Save сохраняет портфолио одним upsert по user_id: повторный вызов
// с тем же payload безопасен, строка остается одна
func (vm *PortfolioViewModel) Save(ctx context.Context, p models.Portfolio) error {
	if p.UserID == "" {
		return apperrors.ValidationError("user_id is required")
	}
	if p.Template != "" && !models.ValidTemplate(p.Template) {
		return apperrors.ValidationError("unknown template")
	}
	if p.Template == "" {
		p.Template = models.TemplateModern
	}

	if err := vm.gw.Table("portfolios").Upsert(ctx, &p, "user_id"); err != nil {
		return apperrors.ErrGateway(err, "portfolio")
	}

	// Локальный кеш отражает только подтвержденное сервером состояние
	var saved models.Portfolio
	if err := vm.gw.Table("portfolios").SelectOne(ctx, &saved, gateway.Eq("user_id", p.UserID)); err == nil {
		vm.update(func() { vm.portfolio = saved })
	}
	return nil
}

// Portfolio возвращает текущее локальное состояние редактора
func (vm *PortfolioViewModel) Portfolio() models.Portfolio {
	var p models.Portfolio
	vm.read(func() { p = vm.portfolio })
	return p
}

// PublicView - данные публичной страницы портфолио /p/<userID>
type PublicView struct {
	Profile   models.Profile   `json:"profile"`
	Portfolio models.Portfolio `json:"portfolio"`
}

// LoadPublic собирает публичную страницу: профиль владельца
// обязателен, портфолио может отсутствовать
func (vm *PortfolioViewModel) LoadPublic(ctx context.Context, userID string) (*PublicView, error) {
	var profile models.Profile
	if err := vm.gw.Table("profiles").SelectOne(ctx, &profile, gateway.Eq("id", userID)); err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrGateway(err, "portfolio")
	}

	view := &PublicView{Profile: profile}
	var p models.Portfolio
	err := vm.gw.Table("portfolios").SelectOne(ctx, &p, gateway.Eq("user_id", userID))
	switch {
	case err == nil:
		view.Portfolio = p
	case errors.Is(err, gateway.ErrNoRows):
		view.Portfolio = defaultPortfolio(userID)
	default:
		return nil, apperrors.ErrGateway(err, "portfolio")
	}
	return view, nil
}
