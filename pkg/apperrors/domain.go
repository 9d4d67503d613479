package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Предопределенные переменные для частых, статичных ошибок ---

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrCannotModifySelf - пользователь (напр. админ) пытается изменить себя.
var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// ErrNotProgramMember - участник не состоит в программе.
var ErrNotProgramMember = New(
	CodeNotFound,
	"program",
	"You are not an active member of this program",
	http.StatusNotFound,
)

// ErrNotProgramAdmin - участник не является админом программы.
var ErrNotProgramAdmin = New(
	CodeForbidden,
	"program",
	"Only a program admin can perform this operation",
	http.StatusForbidden,
)

// ErrGlobalAdminDeletion - глобальный админ не может удалить свой аккаунт.
var ErrGlobalAdminDeletion = New(
	CodeInvalidOperation,
	"member",
	"A global admin account cannot be deleted via self-service",
	http.StatusBadRequest,
)

// ErrInviteNotPending - приглашение уже принято или отклонено.
var ErrInviteNotPending = New(
	CodeInvalidStatus,
	"invite",
	"Invite is no longer pending",
	http.StatusConflict,
)
