package routing

// MediaType is a notification channel with optional content templates.
type MediaType struct {
	ID        string
	Name      string
	Templates []MessageTemplate
}

// MessageTemplate overrides message content for one lifecycle phase.
type MessageTemplate struct {
	// Phase matches the message phase ("recovery" mode on the wire).
	Phase Phase
	// EventSource restricts the template to an event source; trigger events
	// are source "0".
	EventSource string
	Subject     string
	Body        string
}

// TemplateFor returns the trigger-event template for a phase, if configured.
func (m MediaType) TemplateFor(phase Phase) (MessageTemplate, bool) {
	for _, tpl := range m.Templates {
		if tpl.Phase == phase && tpl.EventSource == "0" {
			return tpl, true
		}
	}
	return MessageTemplate{}, false
}
