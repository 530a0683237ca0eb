package email

import "craftfolio_backend/internal/logger"

// MockProvider - заглушка, используется пока SMTP не сконфигурирован
// и во всех тестах
type MockProvider struct{}

func (m *MockProvider) SendWelcome(to, fullName string) error {
	logger.Debug("mock email: welcome", "to", to)
	return nil
}

func (m *MockProvider) SendContactNotification(adminEmail, fromName, fromEmail, message string) error {
	logger.Debug("mock email: contact notification", "to", adminEmail, "from", fromEmail)
	return nil
}
