package errors

import (
	"fmt"

	"maintenance-system/pkg/constants"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrAccountLocked      = fmt.Errorf("аккаунт временно заблокирован")

	// Контекст
	ErrActorNotFoundInContext = fmt.Errorf("актор не найден в контексте запроса")

	// Общие
	ErrNotFound       = fmt.Errorf("запись не найдена")
	ErrBadRequest     = fmt.Errorf("неверный запрос")
	ErrInternalServer = fmt.Errorf("внутренняя ошибка сервера")
)

// ValidationError — нарушение правила входных данных или планирования.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Причины отказа. Наружу уходит только код причины, без внутреннего состояния.
type DenyReason string

const (
	DenyMissingActor    DenyReason = "missing_actor"
	DenyMissingResource DenyReason = "missing_resource"
	DenyWrongRole       DenyReason = "wrong_role"
	DenyWrongTeam       DenyReason = "wrong_team"
	DenyWrongAssignee   DenyReason = "wrong_assignee"
)

// PermissionDeniedError — отказ предиката авторизации.
type PermissionDeniedError struct {
	Predicate string
	Reason    DenyReason
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("доступ запрещён: %s (%s)", e.Predicate, e.Reason)
}

func NewPermissionDenied(predicate string, reason DenyReason) error {
	return &PermissionDeniedError{Predicate: predicate, Reason: reason}
}

// InvalidStatusTransitionError — переход вне таблицы переходов.
type InvalidStatusTransitionError struct {
	From constants.RequestStatus
	To   constants.RequestStatus
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("недопустимый переход статуса: %s -> %s", e.From, e.To)
}

func NewInvalidStatusTransition(from, to constants.RequestStatus) error {
	return &InvalidStatusTransitionError{From: from, To: to}
}

// TeamMismatchError — попытка назначить техника из другой команды.
type TeamMismatchError struct {
	RequestTeamID    uint64
	TechnicianTeamID *uint64
}

func (e *TeamMismatchError) Error() string {
	if e.TechnicianTeamID == nil {
		return fmt.Sprintf("техник не состоит в команде заявки (team_id=%d)", e.RequestTeamID)
	}
	return fmt.Sprintf("команда техника (%d) не совпадает с командой заявки (%d)", *e.TechnicianTeamID, e.RequestTeamID)
}

// EquipmentScrappedError — операция над списанным оборудованием.
type EquipmentScrappedError struct {
	EquipmentID uint64
}

func (e *EquipmentScrappedError) Error() string {
	return fmt.Sprintf("оборудование %d списано и недоступно для операций", e.EquipmentID)
}
