// Knowledge-base tools backed by document search plus answer composition.
//
// Information Hiding:
// - Retrieval collection names and result limits
// - Prompt assembly for answer composition

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TextGenerator composes an answer from a single prompt.
// llm.Client satisfies this.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// KnowledgeSearcher retrieves documents relevant to a query from a named
// collection. storage implementations satisfy this.
type KnowledgeSearcher interface {
	SearchDocuments(ctx context.Context, collection, query string, limit int) ([]string, error)
}

const knowledgeResultsPerTopic = 3

// KnowledgeTool answers a question using retrieved context plus the model's
// own knowledge. Retrieval failures are tolerated: the answer is then
// composed without context.
type KnowledgeTool struct {
	name        string
	description string
	collection  string
	role        string
	searcher    KnowledgeSearcher
	generator   TextGenerator
}

// NewSharkHelperTool creates the company knowledge-base tool.
func NewSharkHelperTool(searcher KnowledgeSearcher, generator TextGenerator) *KnowledgeTool {
	return &KnowledgeTool{
		name: "AjudaShark",
		description: "Use esta ferramenta como PADRÃO para responder perguntas técnicas, dúvidas sobre a SharkDev (Blip, Bots), " +
			"ou qualquer outra dúvida geral que NÃO seja sobre Agenda, Reuniões ou Notícias.",
		collection: "shark_helper",
		role:       "Você é o **Mentor Especialista da SharkDev**.",
		searcher:   searcher,
		generator:  generator,
	}
}

// NewRPGHelperTool creates the tabletop-RPG rules tool.
func NewRPGHelperTool(searcher KnowledgeSearcher, generator TextGenerator) *KnowledgeTool {
	return &KnowledgeTool{
		name:        "DuvidasRPG",
		description: "Use esta ferramenta para responder dúvidas sobre regras e campanhas de RPG de mesa.",
		collection:  "my_collection",
		role:        "Você é um Mestre de RPG experiente e didático.",
		searcher:    searcher,
		generator:   generator,
	}
}

// Metadata returns tool metadata.
func (t *KnowledgeTool) Metadata() Metadata {
	return Metadata{
		Name:        t.name,
		Description: t.description,
		Parameters: []Parameter{
			{Name: "pergunta", ParamType: "string", Description: "A pergunta completa do usuário", Required: true},
			{Name: "temas", ParamType: "array", Description: "Temas-chave para busca na base de conhecimento"},
		},
		Terminal: true,
	}
}

type knowledgeArgs struct {
	Pergunta string   `json:"pergunta"`
	Temas    []string `json:"temas"`
}

// Execute retrieves context for each topic and composes the final answer.
func (t *KnowledgeTool) Execute(ctx context.Context, args json.RawMessage) Result {
	var in knowledgeArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro técnico ao consultar a base de conhecimento: argumentos inválidos (%v)", err))
	}
	if in.Pergunta == "" {
		return SuccessResult("Erro técnico ao consultar a base de conhecimento: pergunta não informada.")
	}

	var documents []string
	if t.searcher != nil {
		for _, tema := range in.Temas {
			docs, err := t.searcher.SearchDocuments(ctx, t.collection, tema, knowledgeResultsPerTopic)
			if err != nil {
				continue // answer without context
			}
			documents = append(documents, docs...)
		}
	}

	prompt := t.buildPrompt(in.Pergunta, documents)
	answer, err := t.generator.Generate(ctx, prompt)
	if err != nil {
		return SuccessResult(fmt.Sprintf("Erro técnico ao consultar a base de conhecimento: %v", err))
	}
	return SuccessResult(answer)
}

func (t *KnowledgeTool) buildPrompt(question string, documents []string) string {
	contextBlock := "(nenhum documento encontrado)"
	if len(documents) > 0 {
		contextBlock = strings.Join(documents, "\n\n")
	}

	var b strings.Builder
	b.WriteString("### PAPEL\n")
	b.WriteString(t.role)
	b.WriteString("\n\n### FONTE DE DADOS\nAbaixo estão trechos da nossa base de conhecimento interna.\n\n")
	b.WriteString("--- INÍCIO DO CONTEXTO ---\n")
	b.WriteString(contextBlock)
	b.WriteString("\n--- FIM DO CONTEXTO ---\n\n")
	b.WriteString("### DIRETRIZES DE RESPOSTA\n")
	b.WriteString("1. Se a resposta estiver no contexto acima, use-o como fonte principal e seja fiel a ele.\n")
	b.WriteString("2. Se a pergunta NÃO estiver relacionada ao contexto, NÃO diga que não sabe; responda de forma útil e didática com seu conhecimento geral.\n")
	b.WriteString("3. Tom profissional, encorajador e didático; formate com Markdown.\n\n")
	b.WriteString("### PERGUNTA DO USUÁRIO\n")
	b.WriteString(question)
	return b.String()
}

var _ Tool = (*KnowledgeTool)(nil)
