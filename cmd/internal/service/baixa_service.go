package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/infrastructure/mail"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/view"
)

// DefaultAssuntoTipo is the request type that does not prefix the subject.
const DefaultAssuntoTipo = "Baixa de empresa"

// BaixaService sends store deactivation requests to the operations mailbox. Its errors use the
// {ok, message} envelope the form expects.
type BaixaService struct {
	Mailer    mail.Sender
	FromEmail string
	MailTo    string
	Clock     *Clock
}

func NewBaixaService(mailer mail.Sender, fromEmail, mailTo string, clock *Clock) *BaixaService {
	return &BaixaService{
		Mailer:    mailer,
		FromEmail: fromEmail,
		MailTo:    mailTo,
		Clock:     clock,
	}
}

type baixaField struct {
	label string
	value string
}

func (b *BaixaService) Send(ctx context.Context, req *contract.BaixaRequest) (*contract.BaixaResponse, apierror.ErrorResponse) {
	if !b.Mailer.Configured() {
		return nil, apierror.NewEnvelope(http.StatusInternalServerError,
			fmt.Sprintf("%s não configurada nas variáveis de ambiente.", b.Mailer.KeyName()))
	}

	utils.Sanitize(req)
	fields := []baixaField{
		{"Tipo de assunto", req.AssuntoTipo},
		{"Nome do Expresso", req.NomeExpresso},
		{"Chave", req.Chave},
		{"Agência", req.Agencia},
		{"PACB", req.Pacb},
		{"Motivo do pedido de baixa", req.Motivo},
		{"E-mail do gerente da agência", req.EmailGerente},
	}
	for _, f := range fields {
		if f.value == "" {
			return nil, apierror.NewEnvelope(http.StatusBadRequest, "Campo obrigatório: "+f.label)
		}
	}

	requester := []baixaField{
		{"Solicitante (nome)", orDash(req.SolicitanteNome)},
		{"Solicitante (email/login)", orDash(req.SolicitanteEmail)},
		{"Data/Hora", b.Clock.Now().In(b.Clock.Location).Format("02/01/2006, 15:04:05")},
	}

	msg := &mail.Message{
		From:    b.FromEmail,
		To:      []string{b.MailTo},
		ReplyTo: req.SolicitanteEmail,
		Subject: BaixaSubject(req.AssuntoTipo, req.NomeExpresso),
		Text:    baixaText(fields[1:], requester),
		HTML:    baixaHTML(req.AssuntoTipo, fields[1:], requester),
	}

	id, err := b.Mailer.Send(ctx, msg)
	if err != nil {
		log.Errorf("failed to send baixa request for %s via %s: %v", req.Chave, b.Mailer.Name(), err)

		var perr *mail.ProviderError
		if errors.As(err, &perr) {
			message := perr.Message
			if message == "" {
				message = fmt.Sprintf("Falha ao enviar e-mail (%s).", b.Mailer.Name())
			}
			return nil, apierror.NewEnvelope(http.StatusInternalServerError, message)
		}
		return nil, apierror.NewEnvelope(http.StatusInternalServerError, "Erro interno ao enviar e-mail.")
	}

	log.Infof("baixa request for %s sent (%s)", req.Chave, id)
	return &contract.BaixaResponse{Ok: true, ID: id}, nil
}

func BaixaSubject(assuntoTipo, nomeExpresso string) string {
	subject := "Solicitação de baixa de empresa - " + nomeExpresso
	if assuntoTipo != "" && !strings.EqualFold(assuntoTipo, DefaultAssuntoTipo) {
		subject = "[" + assuntoTipo + "] " + subject
	}
	return subject
}

func baixaText(fields, requester []baixaField) string {
	var b strings.Builder
	b.WriteString("Solicitação de baixa de empresa\n\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	b.WriteString("\n")
	for _, f := range requester {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return b.String()
}

func baixaHTML(assuntoTipo string, fields, requester []baixaField) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;font-size:14px;color:#111">`)
	fmt.Fprintf(&b, "<h2>Solicitação de baixa de empresa</h2><p><strong>Assunto:</strong> %s</p>", html.EscapeString(assuntoTipo))
	b.WriteString(`<table cellpadding="6" style="border-collapse:collapse">`)
	for _, f := range append(fields, requester...) {
		fmt.Fprintf(&b, `<tr><td style="border:1px solid #ddd"><strong>%s</strong></td><td style="border:1px solid #ddd">%s</td></tr>`,
			html.EscapeString(f.label), strings.ReplaceAll(html.EscapeString(f.value), "\n", "<br>"))
	}
	b.WriteString("</table></div>")
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return view.Placeholder
	}
	return s
}
