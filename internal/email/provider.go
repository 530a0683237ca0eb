package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// SendWelcome отправляет приветственное письмо после регистрации
	SendWelcome(to, fullName string) error

	// SendContactNotification уведомляет админа о новом сообщении
	// с публичной формы обратной связи
	SendContactNotification(adminEmail, fromName, fromEmail, message string) error
}
