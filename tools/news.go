// News tool backed by the GNews API.
//
// Information Hiding:
// - GNews endpoint, query window and API key handling
// - Editorial summarization prompt

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	gnewsAPIBase     = "https://gnews.io/api/v4"
	defaultNewsCount = 10
	newsWindowDays   = 30
)

// ReadNewsTool fetches recent headlines and consolidates them into short
// articles. Terminal: the digest goes straight to the user.
type ReadNewsTool struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	summarizer TextGenerator
	now        func() time.Time
}

// NewReadNewsTool creates the news tool. The summarizer is optional; without
// one the tool returns a plain headline listing.
func NewReadNewsTool(apiKey string, summarizer TextGenerator) *ReadNewsTool {
	return &ReadNewsTool{
		apiKey:     apiKey,
		baseURL:    gnewsAPIBase,
		client:     http.DefaultClient,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// WithEndpoint overrides the API endpoint and HTTP client, for tests.
func (t *ReadNewsTool) WithEndpoint(baseURL string, client *http.Client) *ReadNewsTool {
	t.baseURL = baseURL
	t.client = client
	return t
}

// WithClock overrides the time source, for tests.
func (t *ReadNewsTool) WithClock(now func() time.Time) *ReadNewsTool {
	t.now = now
	return t
}

// Metadata returns tool metadata.
func (t *ReadNewsTool) Metadata() Metadata {
	return Metadata{
		Name:        "LerNoticias",
		Description: "Utilize esta ferramenta sempre que for solicitado que você leia ou atualize alguém sobre as notícias diárias.",
		Parameters: []Parameter{
			{Name: "qtde_noticias", ParamType: "integer", Description: "Quantidade de notícias (padrão 10)"},
			{Name: "assuntos", ParamType: "string", Description: "Assuntos de interesse"},
			{Name: "pais", ParamType: "string", Description: "Código do país (padrão 'br')"},
		},
		Terminal: true,
	}
}

type readNewsArgs struct {
	QtdeNoticias int    `json:"qtde_noticias"`
	Assuntos     string `json:"assuntos"`
	Pais         string `json:"pais"`
}

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Execute fetches headlines from the last 30 days and builds the digest.
func (t *ReadNewsTool) Execute(ctx context.Context, args json.RawMessage) Result {
	var in readNewsArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao buscar notícias: argumentos inválidos (%v)", err))
	}
	if in.QtdeNoticias <= 0 {
		in.QtdeNoticias = defaultNewsCount
	}
	if in.Pais == "" {
		in.Pais = "br"
	}

	today := t.now()
	from := today.AddDate(0, 0, -newsWindowDays)

	query := url.Values{}
	if in.Assuntos != "" {
		query.Set("q", in.Assuntos)
	}
	query.Set("lang", "pt")
	query.Set("max", strconv.Itoa(in.QtdeNoticias))
	query.Set("country", in.Pais)
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", today.Format("2006-01-02"))
	query.Set("sortBy", "publishedAt")
	query.Set("apikey", t.apiKey)
	endpoint := fmt.Sprintf("%s/search?%s", t.baseURL, query.Encode())

	var data newsResponse
	if err := getJSON(ctx, t.client, endpoint, &data); err != nil {
		return SuccessResult("Não foi possível encontrar notícias ou houve erro na API.")
	}
	if len(data.Articles) == 0 {
		return SuccessResult(fmt.Sprintf(
			"Não encontrei notícias recentes sobre '%s' no país '%s'.", in.Assuntos, in.Pais))
	}

	listing := t.formatListing(data)
	if t.summarizer == nil {
		return SuccessResult(listing)
	}

	digest, err := t.summarizer.Generate(ctx, t.buildEditorPrompt(listing))
	if err != nil {
		// Summarization is best effort; the raw listing still answers.
		return SuccessResult(listing)
	}
	return SuccessResult(digest)
}

func (t *ReadNewsTool) formatListing(data newsResponse) string {
	var entries []string
	for _, article := range data.Articles {
		entries = append(entries, fmt.Sprintf("Título: %s\nFonte: %s\nResumo: %s\nConteúdo: %s",
			article.Title, article.Source.Name, article.Description, article.Content))
	}
	return strings.Join(entries, "\n\n---\n\n")
}

func (t *ReadNewsTool) buildEditorPrompt(news string) string {
	var b strings.Builder
	b.WriteString("### PAPEL\n")
	b.WriteString("Você é um Editor Sênior. Sua tarefa é ler as notícias abaixo e criar mini-artigos consolidados.\n\n")
	b.WriteString("### INSTRUÇÕES\n")
	b.WriteString("1. Agrupamento: junte notícias sobre o mesmo tema.\n")
	b.WriteString("2. Redação: escreva um texto fluido (não tópicos) para cada grupo.\n")
	b.WriteString("3. Tamanho: escreva 2 parágrafos por grupo, entre 500 e 1000 caracteres.\n\n")
	b.WriteString("### FORMATO DE SAÍDA (Markdown)\n")
	b.WriteString("## [Título Jornalístico do Grupo]\n**Fontes:** [Lista de Fontes]\n\n[Parágrafo 1]\n\n[Parágrafo 2]\n\n")
	b.WriteString("---\n### NOTÍCIAS PARA ANÁLISE\n")
	b.WriteString(news)
	return b.String()
}

var _ Tool = (*ReadNewsTool)(nil)
