// Code-assistance tool: pair-programming answers composed by the model.
//
// Information Hiding:
// - Pair-programmer prompt assembly

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CodeHelperTool answers programming questions: writing code, debugging,
// explaining concepts and refactoring. Purely generative, no retrieval.
type CodeHelperTool struct {
	generator TextGenerator
}

// NewCodeHelperTool creates the programming help tool.
func NewCodeHelperTool(generator TextGenerator) *CodeHelperTool {
	return &CodeHelperTool{generator: generator}
}

// Metadata returns tool metadata.
func (t *CodeHelperTool) Metadata() Metadata {
	return Metadata{
		Name: "AjudaProgramacao",
		Description: "Use esta ferramenta quando o usuário pedir ajuda para escrever código, " +
			"depurar erros (debugging), explicar conceitos de programação ou refatorar scripts.",
		Parameters: []Parameter{
			{Name: "pergunta", ParamType: "string", Description: "A pergunta completa do usuário", Required: true},
		},
		Terminal: true,
	}
}

type codeHelperArgs struct {
	Pergunta string `json:"pergunta"`
}

// Execute composes the pair-programming answer.
func (t *CodeHelperTool) Execute(ctx context.Context, args json.RawMessage) Result {
	var in codeHelperArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro técnico ao gerar ajuda de programação: argumentos inválidos (%v)", err))
	}
	if in.Pergunta == "" {
		return SuccessResult("Erro técnico ao gerar ajuda de programação: pergunta não informada.")
	}

	answer, err := t.generator.Generate(ctx, buildCodePrompt(in.Pergunta))
	if err != nil {
		return SuccessResult(fmt.Sprintf("Erro técnico ao gerar ajuda de programação: %v", err))
	}
	return SuccessResult(answer)
}

func buildCodePrompt(question string) string {
	var b strings.Builder
	b.WriteString("### PAPEL\n")
	b.WriteString("Você é um Engenheiro de Software Sênior atuando como parceiro de programação do usuário. ")
	b.WriteString("Domina múltiplas linguagens (Python, JavaScript, SQL, Go) e integração de APIs.\n\n")
	b.WriteString("### DIRETRIZES DE RESPOSTA\n")
	b.WriteString("1. Analise o pedido antes de escrever código; se houver ambiguidade, assuma a prática padrão de mercado e avise.\n")
	b.WriteString("2. Escreva código limpo, modular e legível, seguindo as convenções de estilo da linguagem; nunca coloque credenciais no código.\n")
	b.WriteString("3. Ao depurar, explique a causa raiz do problema e mostre o antes e o depois quando ajudar.\n")
	b.WriteString("4. Use blocos de código com a linguagem especificada e negrito para bibliotecas, arquivos e conceitos-chave.\n\n")
	b.WriteString("### FORMATO DE SAÍDA\n")
	b.WriteString("1. Breve explicação da abordagem escolhida.\n")
	b.WriteString("2. O código completo e funcional.\n")
	b.WriteString("3. Notas finais: dependências necessárias e dicas de performance.\n\n")
	b.WriteString("### ENTRADA DO USUÁRIO\n")
	b.WriteString(question)
	return b.String()
}

var _ Tool = (*CodeHelperTool)(nil)
