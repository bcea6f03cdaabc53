// Google Calendar tools: list appointments and create events.
//
// Information Hiding:
// - Calendar REST endpoints and payload shapes
// - Timezone resolution and date assembly
// - Credential checks and login guidance

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharkdev/cidinha/auth"
)

const defaultTimezone = "America/Sao_Paulo"

// DateSpec is the structured date-time the model emits for calendar calls.
type DateSpec struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Day     int `json:"day"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// IsZero reports whether no date was provided.
func (d DateSpec) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time assembles the date in the given location.
func (d DateSpec) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hours, d.Minutes, 0, 0, loc)
}

// loadLocation resolves a timezone name, falling back to UTC.
func loadLocation(name string) *time.Location {
	if name == "" {
		name = defaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// dateSpecParameter describes the DateSpec object schema shared by the
// calendar tools.
func dateSpecParameter(name, description string, required bool) Parameter {
	return Parameter{
		Name:        name,
		ParamType:   "object",
		Description: description,
		Required:    required,
		Properties: []Parameter{
			{Name: "year", ParamType: "integer", Description: "Ano (ex: 2026)", Required: true},
			{Name: "month", ParamType: "integer", Description: "Mês (1-12)", Required: true},
			{Name: "day", ParamType: "integer", Description: "Dia (1-31)", Required: true},
			{Name: "hours", ParamType: "integer", Description: "Hora (0-23)"},
			{Name: "minutes", ParamType: "integer", Description: "Minutos (0-59)"},
		},
	}
}

// =========================
// ConsultarAgenda
// =========================

// CheckCalendarTool lists appointments in a period.
type CheckCalendarTool struct {
	cred    *auth.Credential
	baseURL string
	client  *http.Client
}

// NewCheckCalendarTool creates the calendar lookup tool.
func NewCheckCalendarTool() *CheckCalendarTool {
	return &CheckCalendarTool{baseURL: calendarAPIBase}
}

// WithEndpoint overrides the API endpoint and HTTP client, for tests.
func (t *CheckCalendarTool) WithEndpoint(baseURL string, client *http.Client) *CheckCalendarTool {
	t.baseURL = baseURL
	t.client = client
	return t
}

// WithCredential returns a turn-scoped copy bound to the credential.
func (t *CheckCalendarTool) WithCredential(cred *auth.Credential) Tool {
	bound := *t
	bound.cred = cred
	return &bound
}

// Metadata returns tool metadata.
func (t *CheckCalendarTool) Metadata() Metadata {
	return Metadata{
		Name:        "ConsultarAgenda",
		Description: "Verificar disponibilidade e listar compromissos.",
		Parameters: []Parameter{
			{Name: "email", ParamType: "string", Description: "Calendário a consultar; use 'primary' para o do usuário"},
			dateSpecParameter("start_date", "Início do período", true),
			dateSpecParameter("end_date", "Fim do período", true),
		},
		Terminal: false,
	}
}

type checkCalendarArgs struct {
	Email     string   `json:"email"`
	StartDate DateSpec `json:"start_date"`
	EndDate   DateSpec `json:"end_date"`
}

type calendarEventList struct {
	Items []struct {
		Summary string `json:"summary"`
		Start   struct {
			DateTime string `json:"dateTime"`
			Date     string `json:"date"`
		} `json:"start"`
	} `json:"items"`
}

// Execute lists events between start_date and end_date.
func (t *CheckCalendarTool) Execute(ctx context.Context, args json.RawMessage) Result {
	if !hasCredential(t.cred) {
		return SuccessResult(MsgLogin)
	}

	var in checkCalendarArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao consultar agenda: argumentos inválidos (%v)", err))
	}
	if in.Email == "" {
		in.Email = "primary"
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return SuccessResult("Erro ao consultar agenda: período não informado.")
	}

	query := url.Values{}
	query.Set("timeMin", in.StartDate.Time(time.UTC).Format(time.RFC3339))
	query.Set("timeMax", in.EndDate.Time(time.UTC).Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s",
		t.baseURL, url.PathEscape(in.Email), query.Encode())

	var list calendarEventList
	client := googleClient(ctx, t.cred, t.client)
	if err := getJSON(ctx, client, endpoint, &list); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao consultar agenda: %v", err))
	}

	if len(list.Items) == 0 {
		return SuccessResult("Nenhum compromisso encontrado nesse período.")
	}

	lines := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		summary := item.Summary
		if summary == "" {
			summary = "Sem título"
		}
		start := item.Start.DateTime
		if start == "" {
			start = item.Start.Date
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", start, summary))
	}
	return SuccessResult(strings.Join(lines, "\n"))
}

// =========================
// CriarEvento
// =========================

// CreateEventTool schedules a new meeting with Meet conference data.
type CreateEventTool struct {
	cred    *auth.Credential
	baseURL string
	client  *http.Client
}

// NewCreateEventTool creates the event creation tool.
func NewCreateEventTool() *CreateEventTool {
	return &CreateEventTool{baseURL: calendarAPIBase}
}

// WithEndpoint overrides the API endpoint and HTTP client, for tests.
func (t *CreateEventTool) WithEndpoint(baseURL string, client *http.Client) *CreateEventTool {
	t.baseURL = baseURL
	t.client = client
	return t
}

// WithCredential returns a turn-scoped copy bound to the credential.
func (t *CreateEventTool) WithCredential(cred *auth.Credential) Tool {
	bound := *t
	bound.cred = cred
	return &bound
}

// Metadata returns tool metadata.
func (t *CreateEventTool) Metadata() Metadata {
	return Metadata{
		Name:        "CriarEvento",
		Description: "Use esta ferramenta quando agendar, criar ou marcar NOVAS reuniões no Google Calendar.",
		Parameters: []Parameter{
			dateSpecParameter("meeting_date", "Data e hora de início da reunião", true),
			{Name: "description", ParamType: "string", Description: "Título da reunião", Required: true},
			{Name: "attendees", ParamType: "array", Description: "E-mails dos convidados"},
			{Name: "meet_length", ParamType: "integer", Description: "Duração em minutos (padrão 30)"},
			{Name: "timezone", ParamType: "string", Description: "Fuso horário IANA (padrão America/Sao_Paulo)"},
		},
		Terminal: false,
	}
}

type createEventArgs struct {
	MeetingDate DateSpec `json:"meeting_date"`
	Description string   `json:"description"`
	Attendees   []string `json:"attendees"`
	MeetLength  int      `json:"meet_length"`
	Timezone    string   `json:"timezone"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type eventBody struct {
	Summary        string          `json:"summary"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	Attendees      []eventAttendee `json:"attendees,omitempty"`
	ConferenceData struct {
		CreateRequest struct {
			RequestID             string `json:"requestId"`
			ConferenceSolutionKey struct {
				Type string `json:"type"`
			} `json:"conferenceSolutionKey"`
		} `json:"createRequest"`
	} `json:"conferenceData"`
}

// Execute inserts the event into the primary calendar.
func (t *CreateEventTool) Execute(ctx context.Context, args json.RawMessage) Result {
	if !hasCredential(t.cred) {
		return SuccessResult(MsgLogin)
	}

	var in createEventArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro técnico ao criar evento: argumentos inválidos (%v)", err))
	}
	if in.MeetingDate.IsZero() {
		return SuccessResult("Erro técnico ao criar evento: data da reunião não informada.")
	}
	if in.MeetLength <= 0 {
		in.MeetLength = 30
	}

	loc := loadLocation(in.Timezone)
	start := in.MeetingDate.Time(loc)
	end := start.Add(time.Duration(in.MeetLength) * time.Minute)

	body := eventBody{
		Summary: in.Description,
		Start:   eventTime{DateTime: start.Format(time.RFC3339)},
		End:     eventTime{DateTime: end.Format(time.RFC3339)},
	}
	for _, email := range in.Attendees {
		body.Attendees = append(body.Attendees, eventAttendee{Email: email})
	}
	body.ConferenceData.CreateRequest.RequestID = uuid.NewString()
	body.ConferenceData.CreateRequest.ConferenceSolutionKey.Type = "hangoutsMeet"

	endpoint := fmt.Sprintf("%s/calendars/primary/events?conferenceDataVersion=1", t.baseURL)

	var created struct {
		HTMLLink string `json:"htmlLink"`
	}
	client := googleClient(ctx, t.cred, t.client)
	if err := postJSON(ctx, client, endpoint, body, &created); err != nil {
		return SuccessResult(fmt.Sprintf("Erro técnico ao criar evento: %v", err))
	}

	link := created.HTMLLink
	if link == "" {
		link = "Link indisponível"
	}
	return SuccessResult(fmt.Sprintf("Evento criado com sucesso! Link: %s", link))
}

var (
	_ CredentialTool = (*CheckCalendarTool)(nil)
	_ CredentialTool = (*CreateEventTool)(nil)
)
