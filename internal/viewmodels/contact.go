package viewmodels

import (
	"context"

	"craftfolio_backend/internal/email"
	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
)

// ContactViewModel - форма обратной связи. Доступна анонимам;
// сообщения читают только админы.
type ContactViewModel struct {
	gw         gateway.Gateway
	email      email.Provider
	adminEmail string
}

func NewContactViewModel(gw gateway.Gateway, provider email.Provider, adminEmail string) *ContactViewModel {
	return &ContactViewModel{gw: gw, email: provider, adminEmail: adminEmail}
}

// Send валидирует и сохраняет сообщение, затем асинхронно
// уведомляет админа почтой. Отказ почты не считается ошибкой отправки.
func (vm *ContactViewModel) Send(ctx context.Context, msg models.ContactMessage) error {
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return apperrors.ValidationError("name, email and message are required")
	}

	if err := vm.gw.Table("contact_messages").Insert(ctx, &msg); err != nil {
		return apperrors.ErrGateway(err, "contact")
	}

	if vm.email != nil && vm.adminEmail != "" {
		go func() {
			if err := vm.email.SendContactNotification(vm.adminEmail, msg.Name, msg.Email, msg.Message); err != nil {
				logger.WithError(err).Warn("Не удалось отправить уведомление о сообщении")
			}
		}()
	}
	return nil
}
