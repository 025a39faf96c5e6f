package authz

import (
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

// Предикаты авторизации. Чистые функции без побочных эффектов: nil — доступ
// разрешён, иначе *apperrors.PermissionDeniedError с причиной отказа.
// Все предикаты закрыты по умолчанию: отсутствующий актор или ресурс — отказ.

// CanCreateRequest: заявки создают ADMIN и MANAGER.
func CanCreateRequest(actor *Actor) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canCreateRequest", apperrors.DenyMissingActor)
	}
	if !actor.Role.IsManagement() {
		return apperrors.NewPermissionDenied("canCreateRequest", apperrors.DenyWrongRole)
	}
	return nil
}

// CanAssignRequest: назначают ADMIN и MANAGER.
func CanAssignRequest(actor *Actor) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canAssignRequest", apperrors.DenyMissingActor)
	}
	if !actor.Role.IsManagement() {
		return apperrors.NewPermissionDenied("canAssignRequest", apperrors.DenyWrongRole)
	}
	return nil
}

// CanManageCatalog: справочники (команды, оборудование) ведут ADMIN и MANAGER.
func CanManageCatalog(actor *Actor) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canManageCatalog", apperrors.DenyMissingActor)
	}
	if !actor.Role.IsManagement() {
		return apperrors.NewPermissionDenied("canManageCatalog", apperrors.DenyWrongRole)
	}
	return nil
}

// CanManageUsers: учётные записи ведёт только ADMIN.
func CanManageUsers(actor *Actor) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canManageUsers", apperrors.DenyMissingActor)
	}
	if actor.Role != constants.RoleAdmin {
		return apperrors.NewPermissionDenied("canManageUsers", apperrors.DenyWrongRole)
	}
	return nil
}

// CanViewRequest: ADMIN видит всё; MANAGER — заявки своей команды;
// TECHNICIAN — назначенные на него или заявки своей команды.
func CanViewRequest(actor *Actor, request *entities.MaintenanceRequest) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyMissingActor)
	}
	if request == nil {
		return apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyMissingResource)
	}

	switch actor.Role {
	case constants.RoleAdmin:
		return nil
	case constants.RoleManager:
		if actor.sameTeam(request.TeamID) {
			return nil
		}
		return apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyWrongTeam)
	case constants.RoleTechnician:
		if request.AssignedTo != nil && *request.AssignedTo == actor.ID {
			return nil
		}
		if actor.sameTeam(request.TeamID) {
			return nil
		}
		return apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyWrongTeam)
	}
	return apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyWrongRole)
}

// CanModifyRequest: как просмотр, но технику членства в команде недостаточно —
// только назначенные на него заявки.
func CanModifyRequest(actor *Actor, request *entities.MaintenanceRequest) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canModifyRequest", apperrors.DenyMissingActor)
	}
	if request == nil {
		return apperrors.NewPermissionDenied("canModifyRequest", apperrors.DenyMissingResource)
	}

	switch actor.Role {
	case constants.RoleAdmin:
		return nil
	case constants.RoleManager:
		if actor.sameTeam(request.TeamID) {
			return nil
		}
		return apperrors.NewPermissionDenied("canModifyRequest", apperrors.DenyWrongTeam)
	case constants.RoleTechnician:
		if request.AssignedTo != nil && *request.AssignedTo == actor.ID {
			return nil
		}
		return apperrors.NewPermissionDenied("canModifyRequest", apperrors.DenyWrongAssignee)
	}
	return apperrors.NewPermissionDenied("canModifyRequest", apperrors.DenyWrongRole)
}

// CanUpdateStatus — шлюз для переходов статуса. ADMIN без ограничений;
// MANAGER — только своя команда; TECHNICIAN — только назначенные на него
// заявки и только целевые статусы REPAIRED и SCRAP.
func CanUpdateStatus(actor *Actor, request *entities.MaintenanceRequest, newStatus constants.RequestStatus) error {
	if actor == nil {
		return apperrors.NewPermissionDenied("canUpdateStatus", apperrors.DenyMissingActor)
	}
	if request == nil {
		return apperrors.NewPermissionDenied("canUpdateStatus", apperrors.DenyMissingResource)
	}

	switch actor.Role {
	case constants.RoleAdmin:
		return nil
	case constants.RoleManager:
		if actor.sameTeam(request.TeamID) {
			return nil
		}
		return apperrors.NewPermissionDenied("canUpdateStatus", apperrors.DenyWrongTeam)
	case constants.RoleTechnician:
		if request.AssignedTo == nil || *request.AssignedTo != actor.ID {
			return apperrors.NewPermissionDenied("canUpdateStatus", apperrors.DenyWrongAssignee)
		}
		if newStatus != constants.StatusRepaired && newStatus != constants.StatusScrap {
			return apperrors.NewPermissionDenied("canUpdateStatus", apperrors.DenyWrongRole)
		}
		return nil
	}
	return apperrors.NewPermissionDenied("canUpdateStatus", apperrors.DenyWrongRole)
}
