package policy

import (
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/utils/apierror"
)

// CanChangeRole checks if 'actor' can set the role of 'target' to 'role'.
func (p *AccessPolicy) CanChangeRole(actor, target *entity.User, role entity.Role) apierror.ErrorResponse {
	if err := p.RequireAdmin(actor); err != nil {
		return err
	}

	if target == nil {
		return apierror.IDPUserNotFoundError
	}

	if !role.Valid() {
		return apierror.NewSimple(400, "Papel inválido: %s", role)
	}

	// An admin removing their own role could leave the dashboard without administrators.
	if actor.ID == target.ID && role != entity.RoleAdmin {
		return forbiddenError("Administradores não podem remover o próprio acesso.")
	}
	return nil
}

// InitialRole is the role given to an account on first access.
func InitialRole(listedAdmin, inAdminGroup bool) entity.Role {
	if listedAdmin || inAdminGroup {
		return entity.RoleAdmin
	}
	return entity.RoleUser
}
