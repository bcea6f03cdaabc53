// Web search tool backed by the DuckDuckGo Instant Answer API.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	duckduckgoAPIBase    = "https://api.duckduckgo.com"
	defaultSearchResults = 5
)

// WebSearchTool searches the web for factual, non-news information.
type WebSearchTool struct {
	baseURL string
	client  *http.Client
}

// NewWebSearchTool creates the web search tool.
func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{baseURL: duckduckgoAPIBase, client: http.DefaultClient}
}

// WithEndpoint overrides the API endpoint and HTTP client, for tests.
func (t *WebSearchTool) WithEndpoint(baseURL string, client *http.Client) *WebSearchTool {
	t.baseURL = baseURL
	t.client = client
	return t
}

// Metadata returns tool metadata.
func (t *WebSearchTool) Metadata() Metadata {
	return Metadata{
		Name: "PesquisaWeb",
		Description: "Utilize para buscar informações na internet que NÃO sejam notícias de última hora. " +
			"Ideal para: documentações técnicas, erros de código, datas históricas, sites oficiais e fact-checking.",
		Parameters: []Parameter{
			{Name: "query", ParamType: "string", Description: "Termos de busca", Required: true},
			{Name: "max_results", ParamType: "integer", Description: "Quantidade máxima de resultados (padrão 5)"},
		},
		Terminal: false,
	}
}

type webSearchArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchTopic struct {
	Text     string        `json:"Text"`
	FirstURL string        `json:"FirstURL"`
	Topics   []searchTopic `json:"Topics"`
}

type searchResponse struct {
	Heading       string        `json:"Heading"`
	AbstractText  string        `json:"AbstractText"`
	AbstractURL   string        `json:"AbstractURL"`
	RelatedTopics []searchTopic `json:"RelatedTopics"`
}

// Execute queries the instant-answer endpoint and flattens the results.
func (t *WebSearchTool) Execute(ctx context.Context, args json.RawMessage) Result {
	var in webSearchArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao realizar pesquisa na web: argumentos inválidos (%v)", err))
	}
	if in.Query == "" {
		return SuccessResult("Erro ao realizar pesquisa na web: consulta vazia.")
	}
	if in.MaxResults <= 0 {
		in.MaxResults = defaultSearchResults
	}

	query := url.Values{}
	query.Set("q", in.Query)
	query.Set("format", "json")
	query.Set("no_html", "1")
	query.Set("skip_disambig", "1")
	endpoint := fmt.Sprintf("%s/?%s", t.baseURL, query.Encode())

	var data searchResponse
	if err := getJSON(ctx, t.client, endpoint, &data); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao realizar pesquisa na web: %v", err))
	}

	results := flattenTopics(data.RelatedTopics, in.MaxResults)
	if data.AbstractText != "" {
		abstract := searchTopic{Text: data.AbstractText, FirstURL: data.AbstractURL}
		results = append([]searchTopic{abstract}, results...)
		if len(results) > in.MaxResults {
			results = results[:in.MaxResults]
		}
	}
	if len(results) == 0 {
		return SuccessResult("Nenhum resultado relevante encontrado na web.")
	}

	lines := []string{fmt.Sprintf("Resultados para: '%s'\n", in.Query)}
	for i, res := range results {
		lines = append(lines, fmt.Sprintf("Result #%d", i+1))
		lines = append(lines, fmt.Sprintf("Resumo: %s", res.Text))
		lines = append(lines, fmt.Sprintf("Link: %s\n---", res.FirstURL))
	}
	return SuccessResult(strings.Join(lines, "\n"))
}

// flattenTopics walks nested topic groups depth-first up to the limit.
func flattenTopics(topics []searchTopic, limit int) []searchTopic {
	var out []searchTopic
	for _, topic := range topics {
		if len(out) >= limit {
			break
		}
		if len(topic.Topics) > 0 {
			nested := flattenTopics(topic.Topics, limit-len(out))
			out = append(out, nested...)
			continue
		}
		if topic.Text != "" {
			out = append(out, topic)
		}
	}
	return out
}

var _ Tool = (*WebSearchTool)(nil)
