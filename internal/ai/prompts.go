package ai

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed prompts/*.md
var promptFS embed.FS

// Prompts are parsed once at package init; reused on every draft.
var (
	AnswerSystemTemplate  = mustPrompt("answer_system.md")
	AnswerUserTemplate    = mustPrompt("answer_user.md")
	MessageSystemTemplate = mustPrompt("message_system.md")
	MessageUserTemplate   = mustPrompt("message_user.md")
)

var promptFuncs = template.FuncMap{"join": strings.Join}

func mustPrompt(name string) *template.Template {
	return template.Must(template.New(name).Funcs(promptFuncs).ParseFS(promptFS, "prompts/"+name))
}
