package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	ProfileHandler     *ProfileHandler
	PortfolioHandler   *PortfolioHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	AdminHandler       *AdminHandler
	ContactHandler     *ContactHandler
}
