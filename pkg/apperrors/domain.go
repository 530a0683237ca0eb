package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок бизнес-логики портфолио-платформы.
*/

// =========================================================================
// Фабричные функции (оборачивание ошибок шлюза данных)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка шлюза (типа gateway.ErrNoRows)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrGateway - фабрика для ошибок мутаций шлюза (502)
// Ошибка мутации всегда показывается пользователю блокирующим сообщением,
// локальное состояние при этом не меняется.
func ErrGateway(err error, domain string) *AppError {
	return Wrap(err, CodeGatewayError, domain, "Backend request failed", http.StatusBadGateway)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные переменные (частые, статичные ошибки)
// =========================================================================

// --- Auth & Session ---

// ErrInvalidCredentials - неверная пара email/пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - регистрация на занятый email.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email is already registered",
	http.StatusConflict,
)

// ErrWeakPassword - пароль не проходит минимальные требования.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters long",
	http.StatusBadRequest,
)

// ErrInvalidToken - токен не распарсился, подпись не сошлась или истек срок.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrInvalidUserRole - операция не предусмотрена для роли пользователя.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrCannotModifySelf - админ пытается удалить собственный аккаунт.
var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Portfolio & Applications ---

// ErrPortfolioRequired - отклик на вакансию без созданного портфолио.
// Проверка выполняется до любого insert (см. JobsViewModel.Apply).
var ErrPortfolioRequired = New(
	CodePrerequisite,
	"application",
	"Please create your portfolio before applying for jobs",
	http.StatusConflict,
)

// ErrAlreadyApplied - повторный отклик на ту же вакансию.
var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"application",
	"You have already applied for this job",
	http.StatusConflict,
)

// ErrApplicationNotFound - отклик не найден или принадлежит другому пользователю.
var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

// ErrJobNotFound - вакансия не найдена или не активна.
var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job listing not found",
	http.StatusNotFound,
)

// ErrNotJobOwner - попытка изменить чужую вакансию.
var ErrNotJobOwner = New(
	CodeForbidden,
	"job",
	"Only the job owner can perform this operation",
	http.StatusForbidden,
)
