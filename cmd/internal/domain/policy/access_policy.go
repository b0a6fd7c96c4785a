package policy

import (
	"net/http"

	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/utils/apierror"
)

// AccessPolicy is the single place where authorization is decided. The stored role is the only
// source of admin rights.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

func (p *AccessPolicy) IsAdmin(actor *entity.User) bool {
	return actor.IsAdmin() && actor.Active
}

func (p *AccessPolicy) RequireAdmin(actor *entity.User) apierror.ErrorResponse {
	if !p.IsAdmin(actor) {
		return apierror.AdminOnlyError
	}
	return nil
}

// CanViewPrestacao hides reports of other users behind a 404.
func (p *AccessPolicy) CanViewPrestacao(actor *entity.User, prest *entity.Prestacao) apierror.ErrorResponse {
	if prest == nil {
		return apierror.NotFoundError
	}

	if prest.UserID != actor.ID && !p.IsAdmin(actor) {
		return apierror.NotFoundError
	}
	return nil
}

func (p *AccessPolicy) CanDeletePrestacao(actor *entity.User, prest *entity.Prestacao) apierror.ErrorResponse {
	return p.CanViewPrestacao(actor, prest)
}

// CanUploadComprovante is owner only: admins review receipts, they do not attach them.
func (p *AccessPolicy) CanUploadComprovante(actor *entity.User, prest *entity.Prestacao) apierror.ErrorResponse {
	if err := p.CanViewPrestacao(actor, prest); err != nil {
		return err
	}

	if prest.UserID != actor.ID {
		return forbiddenError("Apenas o autor da prestação pode anexar comprovantes.")
	}
	return nil
}

func (p *AccessPolicy) CanTogglePagamento(actor *entity.User) apierror.ErrorResponse {
	return p.RequireAdmin(actor)
}

func (p *AccessPolicy) CanCompleteAgendamento(actor *entity.User, ag *entity.Agendamento) apierror.ErrorResponse {
	if ag == nil {
		return apierror.NotFoundError
	}

	if ag.TrainerID != actor.ID && !p.IsAdmin(actor) {
		return forbiddenError("Apenas o responsável pelo agendamento pode concluí-lo.")
	}
	return nil
}

func (p *AccessPolicy) CanResetAgendamento(actor *entity.User) apierror.ErrorResponse {
	return p.RequireAdmin(actor)
}

// AgendaScope resolves whose agenda a request may read. Non-admins always get their own.
func (p *AccessPolicy) AgendaScope(actor *entity.User, requestedEmail string) string {
	if p.IsAdmin(actor) {
		return requestedEmail
	}
	return actor.Email
}

func forbiddenError(msg string) *apierror.APIError {
	return apierror.NewSimple(http.StatusForbidden, msg)
}
