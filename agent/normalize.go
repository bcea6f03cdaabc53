// Turn input normalization.
//
// Builds the canonical message list for a turn from history, new text,
// attachments and identity context. The policy is lenient: malformed history
// records and undecodable attachments are dropped, never fatal.

package agent

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sharkdev/cidinha/model"
	"github.com/sharkdev/cidinha/storage"
)

// attachmentTextLimit truncates textual attachment content.
const attachmentTextLimit = 2000

// emptyTurnPlaceholder keeps a turn from ever being content-empty.
const emptyTurnPlaceholder = "(mensagem sem texto)"

// normalizeHistory maps raw records to domain messages. Only user and
// assistant roles survive; empty content and unknown roles are skipped.
func normalizeHistory(records []storage.ChatRecord) []model.Message {
	var messages []model.Message
	for _, record := range records {
		if record.Content == "" {
			continue
		}
		role, ok := model.ParseRole(record.Role)
		if !ok {
			continue
		}
		switch role {
		case model.RoleUser:
			messages = append(messages, model.UserText(record.Content))
		case model.RoleAssistant:
			messages = append(messages, model.AssistantText(record.Content))
		}
	}
	return messages
}

// buildUserMessage assembles the new User message for the turn, in order:
// new text, attachment marker plus attachment blocks, identity context.
func buildUserMessage(in TurnInput) model.Message {
	var blocks []model.ContentBlock

	if in.NewText != "" {
		blocks = append(blocks, model.TextBlock{Text: in.NewText})
	}

	if len(in.Attachments) > 0 {
		names := make([]string, 0, len(in.Attachments))
		for _, att := range in.Attachments {
			name := att.Name
			if name == "" {
				name = "arquivo"
			}
			names = append(names, name)
		}
		blocks = append(blocks, model.TextBlock{Text: fmt.Sprintf(
			"\n[SISTEMA]: O usuário anexou os seguintes arquivos: %s. Se precisar analisá-los, peça detalhes.",
			strings.Join(names, ", "))})

		for _, att := range in.Attachments {
			if block, ok := attachmentBlock(att); ok {
				blocks = append(blocks, block)
			}
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, model.TextBlock{Text: emptyTurnPlaceholder})
	}

	if in.Identity != nil && in.Identity.Name != "" && in.Identity.Email != "" {
		blocks = append(blocks, model.TextBlock{Text: fmt.Sprintf(
			"\nCONTEXTO DO USUÁRIO:\nNome: %s\nE-mail: %s",
			sanitizeIdentity(in.Identity.Name), sanitizeIdentity(in.Identity.Email))})
	}

	return model.Message{Role: model.RoleUser, Content: blocks}
}

// attachmentBlock converts one attachment. Images become inline image
// blocks; anything textual becomes a marked text block. Undecodable
// attachments are skipped.
func attachmentBlock(att Attachment) (model.ContentBlock, bool) {
	if len(att.Data) == 0 {
		return nil, false
	}

	if strings.HasPrefix(att.MIME, "image/") {
		return model.ImageBlock{Data: att.Data, MIME: att.MIME}, true
	}

	if !utf8.Valid(att.Data) {
		return nil, false
	}
	text := string(att.Data)
	if len(text) > attachmentTextLimit {
		cut := attachmentTextLimit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "…"
	}
	name := att.Name
	if name == "" {
		name = "arquivo"
	}
	return model.TextBlock{Text: fmt.Sprintf("\n[SISTEMA]: Conteúdo de %s:\n%s", name, text)}, true
}

// sanitizeIdentity strips control characters and formatting syntax so
// identity values cannot act as instructions to the model.
func sanitizeIdentity(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		case r == '`' || r == '{' || r == '}' || r == '[' || r == ']':
			// dropped: formatting/template syntax
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
