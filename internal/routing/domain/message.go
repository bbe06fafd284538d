package routing

import (
	"regexp"
	"strconv"
)

// RepeatInfinite is the repeat count of problem notifications that escalate
// without a final step.
const RepeatInfinite = "∞"

// Message describes one notification that would be generated for a trigger:
// content, escalation timing and the raw targets awaiting recipient
// resolution. Messages live only for the duration of a resolution pass.
type Message struct {
	Phase         Phase
	ActionID      string
	ActionName    string
	OperationID   string
	MediaTypeID   string
	MediaTypeName string
	Subject       string
	Body          string

	// StartOffset is the escalation start delay as a period string; "0"
	// means immediate.
	StartOffset string
	RepeatCount string

	UserIDs    []string
	GroupIDs   []string
	Recipients []Recipient
}

// NewMessage builds the message descriptor for one expanded send-message
// operation. The media type list is used for name and template lookup only;
// fan-out across media types happens in ExpandOperations.
func NewMessage(phase Phase, action Action, op Operation, mediaTypes []MediaType) Message {
	msg := Message{
		Phase:       phase,
		ActionID:    action.ID,
		ActionName:  action.Name,
		OperationID: op.ID,
		MediaTypeID: op.Message.MediaTypeID,
		Subject:     op.Message.Subject,
		Body:        op.Message.Body,
		UserIDs:     op.UserIDs,
		GroupIDs:    op.GroupIDs,
	}

	// Operations without their own escalation period inherit the action's.
	escPeriod := op.EscPeriod
	if escPeriod == "" || escPeriod == "0" {
		escPeriod = action.EscPeriod
	}
	startStep := op.EscStepFrom
	if startStep < 1 {
		startStep = 1
	}
	msg.StartOffset = multiplyPeriod(escPeriod, startStep-1)

	switch {
	case op.EscStepTo != 0:
		msg.RepeatCount = strconv.Itoa(op.EscStepTo - op.EscStepFrom + 1)
	case phase != PhaseProblem:
		msg.RepeatCount = "1"
	default:
		// Problem notifications without a final step repeat until resolved.
		msg.RepeatCount = RepeatInfinite
	}

	msg.selectMediaType(mediaTypes, op.Message.UseDefault)
	return msg
}

// selectMediaType resolves the media type name and applies its content
// template when the operation asked for the default message.
func (m *Message) selectMediaType(mediaTypes []MediaType, useDefault bool) {
	for _, mt := range mediaTypes {
		if mt.ID != m.MediaTypeID {
			continue
		}
		m.MediaTypeName = mt.Name
		if tpl, ok := mt.TemplateFor(m.Phase); ok && useDefault {
			m.Subject = tpl.Subject
			m.Body = tpl.Body
		}
	}
}

var periodDigits = regexp.MustCompile(`\d+`)

// multiplyPeriod multiplies every numeric component of a period string such
// as "1h30m" by the given factor. A result beginning with "0" collapses to
// "0", meaning immediate.
func multiplyPeriod(period string, factor int) string {
	result := periodDigits.ReplaceAllStringFunc(period, func(digits string) string {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return digits
		}
		return strconv.Itoa(n * factor)
	})
	if result == "" || result[0] == '0' {
		return "0"
	}
	return result
}
