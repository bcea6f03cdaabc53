// System prompt assembly with temporal context.

package agent

import (
	"fmt"
	"strings"
	"time"
)

var weekdaysPT = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// buildSystemPrompt assembles the assistant persona plus temporal and
// contact context. The date anchor lets the model resolve relative phrases
// like "próxima sexta".
func buildSystemPrompt(config Config) string {
	if config.SystemPrompt != "" {
		return config.SystemPrompt
	}

	now := config.clock()()
	contacts := "(nenhum contato cadastrado)"
	if len(config.Contacts) > 0 {
		contacts = "- " + strings.Join(config.Contacts, "\n- ")
	}

	var b strings.Builder
	b.WriteString("### PERFIL\n")
	b.WriteString("Você é a Cidinha, assistente virtual executiva da SharkDev.\n")
	b.WriteString("Tom de voz: profissional, direta, mas empática.\n\n")

	b.WriteString("### CONTEXTO TEMPORAL\n")
	fmt.Fprintf(&b, "- Hoje: %s, %s (%s).\n",
		weekdaysPT[now.Weekday()],
		now.Format("02/01/2006"),
		now.Format("15:04"))
	b.WriteString("- Regra de ouro: ao receber pedidos como \"próxima sexta\", CALCULE a data exata com base em \"Hoje\".\n\n")

	b.WriteString("### CONTATOS\n")
	b.WriteString(contacts)
	b.WriteString("\n\n")

	b.WriteString("### REGRAS DE SELEÇÃO DE FERRAMENTAS\n")
	b.WriteString("1. Agenda/Reuniões: use `ConsultarAgenda` e `CriarEvento`.\n")
	b.WriteString("2. Emails: use `ConsultarEmail` ou `EnviarEmail`.\n")
	b.WriteString("3. Notícias: use `LerNoticias`.\n")
	b.WriteString("4. Fact-checking e documentação: use `PesquisaWeb`.\n")
	b.WriteString("5. RPG/D&D: use `DuvidasRPG`.\n")
	b.WriteString("6. SharkDev, Blip e dúvidas técnicas gerais: use `AjudaShark`.\n")
	b.WriteString("7. Escrever código, debugging e refatoração: use `AjudaProgramacao`.\n")
	b.WriteString("8. Papo furado: responda diretamente.\n\n")

	b.WriteString("### PROTOCOLO DE SEGURANÇA PARA AGENDAMENTOS\n")
	b.WriteString("Antes de executar `CriarEvento`: identifique os participantes, chame `ConsultarAgenda` ")
	b.WriteString("e, se houver conflito, PARE e pergunte ao usuário.\n")
	b.WriteString("Título do evento: `TEMA | Solicitante <> Convidado`.\n")

	return b.String()
}
