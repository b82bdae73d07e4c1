// Package notify renders the email templates used by the notification
// outbox consumer. Templates use {{key}} placeholders filled from the
// notification payload.
package notify

import (
	"fmt"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template is one email template.
type Template struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Message is a rendered notification ready for delivery.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"text"`
}

var templates map[string]Template

func init() {
	if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
		panic(fmt.Sprintf("parse embedded notification templates: %v", err))
	}
}

// Render fills the template for kind with the given payload values. Unknown
// kinds are an error; placeholders without a payload value are left as is.
func Render(kind string, payload map[string]string) (*Message, error) {
	tpl, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown notification kind %q", kind)
	}

	subject := tpl.Subject
	body := tpl.Body
	for key, value := range payload {
		subject = strings.ReplaceAll(subject, "{{"+key+"}}", value)
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}
	return &Message{Subject: subject, Body: strings.TrimRight(body, "\n")}, nil
}

// Kinds returns the set of known template kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(templates))
	for k := range templates {
		kinds = append(kinds, k)
	}
	return kinds
}
