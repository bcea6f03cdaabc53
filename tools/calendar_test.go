package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sharkdev/cidinha/auth"
)

func calendarArgs(t *testing.T) json.RawMessage {
	t.Helper()
	return json.RawMessage(`{
		"email": "primary",
		"start_date": {"year": 2026, "month": 8, "day": 29},
		"end_date": {"year": 2026, "month": 8, "day": 30}
	}`)
}

func TestCheckCalendarWithoutCredential(t *testing.T) {
	tool := NewCheckCalendarTool().WithCredential(nil)
	result := tool.Execute(context.Background(), calendarArgs(t))
	if result.Output != MsgLogin {
		t.Errorf("expected login guidance, got %q", result.Output)
	}
}

func TestCheckCalendarEmptyPeriod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/calendars/primary/events") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("orderBy") != "startTime" {
			t.Errorf("missing orderBy, query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	tool := NewCheckCalendarTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	result := tool.Execute(context.Background(), calendarArgs(t))
	if result.Output != "Nenhum compromisso encontrado nesse período." {
		t.Errorf("output = %q", result.Output)
	}
	if result.Failed() {
		t.Error("empty period is a successful lookup, not a failure")
	}
}

func TestCheckCalendarListsEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [
			{"summary": "Reunião de equipe", "start": {"dateTime": "2026-08-29T10:00:00-03:00"}},
			{"start": {"date": "2026-08-29"}}
		]}`))
	}))
	defer server.Close()

	tool := NewCheckCalendarTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	result := tool.Execute(context.Background(), calendarArgs(t))
	if !strings.Contains(result.Output, "- 2026-08-29T10:00:00-03:00: Reunião de equipe") {
		t.Errorf("missing timed event line: %q", result.Output)
	}
	if !strings.Contains(result.Output, "- 2026-08-29: Sem título") {
		t.Errorf("missing all-day event fallback: %q", result.Output)
	}
}

func TestCheckCalendarServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	tool := NewCheckCalendarTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	result := tool.Execute(context.Background(), calendarArgs(t))
	if !strings.HasPrefix(result.Output, "Erro ao consultar agenda:") {
		t.Errorf("output = %q", result.Output)
	}
	if !result.Failed() {
		t.Error("server error output should carry a failure marker")
	}
}

func TestCreateEventSuccess(t *testing.T) {
	var received eventBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("conferenceDataVersion") != "1" {
			t.Errorf("missing conferenceDataVersion, query = %s", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		w.Write([]byte(`{"htmlLink": "https://calendar.google.com/event?eid=abc"}`))
	}))
	defer server.Close()

	tool := NewCreateEventTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	args := json.RawMessage(`{
		"meeting_date": {"year": 2026, "month": 9, "day": 1, "hours": 14, "minutes": 30},
		"description": "Alinhamento semanal",
		"attendees": ["ana@sharkdev.com.br"],
		"meet_length": 45
	}`)
	result := tool.Execute(context.Background(), args)

	if result.Output != "Evento criado com sucesso! Link: https://calendar.google.com/event?eid=abc" {
		t.Errorf("output = %q", result.Output)
	}
	if received.Summary != "Alinhamento semanal" {
		t.Errorf("summary = %q", received.Summary)
	}
	if len(received.Attendees) != 1 || received.Attendees[0].Email != "ana@sharkdev.com.br" {
		t.Errorf("attendees = %v", received.Attendees)
	}
	if received.ConferenceData.CreateRequest.RequestID == "" {
		t.Error("conference request id not set")
	}
	if received.ConferenceData.CreateRequest.ConferenceSolutionKey.Type != "hangoutsMeet" {
		t.Errorf("conference type = %q", received.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
	}
}

func TestCreateEventDefaultsLength(t *testing.T) {
	var received eventBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tool := NewCreateEventTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	args := json.RawMessage(`{
		"meeting_date": {"year": 2026, "month": 9, "day": 1, "hours": 10},
		"description": "Daily"
	}`)
	result := tool.Execute(context.Background(), args)

	if !strings.Contains(result.Output, "Link indisponível") {
		t.Errorf("output = %q", result.Output)
	}
	if received.Start.DateTime == "" || received.End.DateTime == "" {
		t.Fatalf("start/end not set: %+v", received)
	}
	// Default length is 30 minutes.
	if !strings.Contains(received.End.DateTime, "10:30") {
		t.Errorf("end = %q, want 30 minutes after start", received.End.DateTime)
	}
}

func TestCreateEventWithoutCredential(t *testing.T) {
	tool := NewCreateEventTool().WithCredential(nil)
	result := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if result.Output != MsgLogin {
		t.Errorf("expected login guidance, got %q", result.Output)
	}
}
