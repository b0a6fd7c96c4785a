package view

import (
	"fmt"
	"strings"
	"time"

	"treinoexpresso/cmd/internal/classify"
	"treinoexpresso/cmd/internal/records"
)

// CertificationMessage is the chat text sent to a store whose certification expired or is expiring.
func CertificationMessage(row *records.RosterRow, status classify.CertStatus) string {
	var expiry *time.Time
	if row.CertDate != nil {
		e := classify.ExpiryDate(*row.CertDate)
		expiry = &e
	}

	expired := status == classify.Expired
	header := "⏰ *CERTIFICAÇÃO PRÓXIMA DE VENCER*"
	expiryLine := "⌛ *Vence em:* " + FormatPtBRDate(expiry)
	footer := "📣 Atenção: favor programar a renovação da certificação."
	if expired {
		header = "🚨 *CERTIFICAÇÃO VENCIDA*"
		expiryLine = "⛔ *Vencido em:* " + FormatPtBRDate(expiry)
		footer = "⚠️ Precisamos agendar a recertificação com urgência."
	}

	return strings.Join([]string{
		header,
		"",
		"🏪 *Expresso:* " + orPlaceholder(row.Nome),
		"🔑 *Chave:* " + orPlaceholder(row.Chave),
		fmt.Sprintf("🏦 *Agência/PACB:* %s / %s", orPlaceholder(row.Agencia), orPlaceholder(row.Pacb)),
		"📍 *Município:* " + orPlaceholder(row.Municipio),
		"",
		"💳 *TRX:* " + FormatCount(row.Trx),
		"📌 *Status:* " + orPlaceholder(row.Status),
		"",
		"📅 *Certificado em:* " + FormatPtBRDate(row.CertDate),
		expiryLine,
		"",
		footer,
	}, "\n")
}

// CandidateMessage summarizes one exam result.
func CandidateMessage(rec *records.CertificateRecord) string {
	return strings.Join([]string{
		"🪪 *Consulta de Certificação*",
		"",
		"👤 *Candidato:* " + orPlaceholder(rec.Nome),
		"🆔 *CPF:* " + orPlaceholder(FormatCPF(rec.CPF)),
		"🏪 *Chave Loja:* " + orPlaceholder(rec.ChaveLoja),
		"🧾 *CNPJ:* " + orPlaceholder(FormatCNPJ(rec.CNPJ)),
		"🏢 *Correspondente:* " + orPlaceholder(rec.Correspondente),
		"",
		"✅ *Status da prova:* " + orPlaceholder(rec.StatusProva),
		"📅 *Data realização:* " + FormatDateOr(rec.Data, rec.DataRaw),
	}, "\n")
}

// Assignment is the part of a training assignment the message shows.
type Assignment struct {
	ScheduledAt  int64
	TrainerEmail string
	Concluded    bool
}

// TrainingMessage is the chat card of a store in the training list. assignment is nil when
// nobody claimed the store; fallbackTrainer is shown as responsible in that case.
func TrainingMessage(s *records.TrainingStore, assignment *Assignment, fallbackTrainer string, loc *time.Location) string {
	when := "a definir"
	responsible := orPlaceholder(fallbackTrainer)
	status := "Sem agendamento"
	if assignment != nil {
		if assignment.ScheduledAt > 0 {
			when = FormatDateTime(assignment.ScheduledAt, loc)
		}
		if assignment.TrainerEmail != "" {
			responsible = assignment.TrainerEmail
		}
		status = "Agendado"
		if assignment.Concluded {
			status = "Concluído"
		}
	}

	lines := []string{
		"📌 *Treinamento — Agendamento*",
		"",
		"🏪 *Loja:* " + orPlaceholder(s.NomeLoja),
		"🏢 *Razão Social:* " + orPlaceholder(s.RazaoSocial),
		"🔑 *Chave Loja:* " + orPlaceholder(s.Chave),
		"🧾 *CNPJ:* " + orPlaceholder(FormatCNPJ(s.CNPJ)),
		"📍 *Município:* " + orPlaceholder(s.Municipio),
	}
	if s.CodAgencia != "" || s.NomeAgencia != "" {
		line := "🏦 *Agência:* " + orPlaceholder(s.CodAgencia)
		if s.NomeAgencia != "" {
			line += " — " + s.NomeAgencia
		}
		lines = append(lines, line)
	}

	phone := strings.TrimSpace(strings.Join(nonEmpty(s.DDD, s.Telefone), " "))
	lines = append(lines,
		"",
		"📅 *Data/Hora:* "+when,
		"👤 *Responsável:* "+responsible,
		"✅ *Status:* "+status,
		"",
		"📞 *Telefone:* "+orPlaceholder(phone),
		"🙋 *Contato:* "+orPlaceholder(s.Contato),
		"✉️ *E-mail:* "+orPlaceholder(s.Email),
	)
	return strings.Join(lines, "\n")
}

// FormatCount prints whole numbers without decimals and keeps fractions otherwise.
func FormatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
