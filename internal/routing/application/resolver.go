package application

import (
	"go.uber.org/zap"

	routing "notify-audit/internal/routing/domain"
)

// Options tune one resolution pass.
type Options struct {
	// ShowUnavailable keeps recipients without host-group rights visible in
	// the report instead of flagging them hidden.
	ShowUnavailable bool
}

// Resolver runs the routing pass: action selection, operation expansion,
// message building and recipient resolution over one snapshot. It holds no
// state besides the logger; concurrent passes share nothing.
type Resolver struct {
	log *zap.Logger
}

// NewResolver returns a resolver logging through the given logger.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

// Resolve computes which notifications the snapshot's configuration would
// generate for each of the host's triggers, and who would receive them.
func (r *Resolver) Resolve(snap Snapshot, opts Options) Result {
	result := Result{
		Host:            snap.Host,
		ShowUnavailable: opts.ShowUnavailable,
		Triggers:        make([]TriggerReport, 0, len(snap.Triggers)),
		SkippedActions:  []SkippedAction{},
	}

	// First pass: expand every trigger's messages so that all targeted group
	// ids are known before recipient permissions are aggregated.
	type expansion struct {
		trigger  routing.Trigger
		messages []routing.Message
	}
	expansions := make([]expansion, 0, len(snap.Triggers))
	var targetedGroups []string

	for _, trigger := range snap.Triggers {
		trigger.SelectTemplates(snap.Templates)

		selected := routing.SelectActions(&trigger, snap.Actions, func(action routing.Action, err error) {
			r.log.Warn("action skipped",
				zap.String("actionid", action.ID),
				zap.String("action", action.Name),
				zap.String("triggerid", trigger.ID),
				zap.Error(err))
			result.SkippedActions = append(result.SkippedActions, SkippedAction{
				ActionID:   action.ID,
				ActionName: action.Name,
				TriggerID:  trigger.ID,
				Reason:     err.Error(),
			})
		})

		var messages []routing.Message
		for _, action := range selected {
			for _, phase := range routing.Phases {
				messages = append(messages, routing.ExpandOperations(action, phase, snap.MediaTypes)...)
			}
		}
		for _, msg := range messages {
			targetedGroups = append(targetedGroups, msg.GroupIDs...)
		}
		expansions = append(expansions, expansion{trigger: trigger, messages: messages})
	}

	index := routing.NewRecipientIndex(snap.Users, snap.UserGroups)
	index.GrantReachRights(targetedGroups)

	for _, exp := range expansions {
		report := TriggerReport{
			TriggerID:    exp.trigger.ID,
			Name:         exp.trigger.Name,
			Priority:     exp.trigger.Priority,
			HostGroupIDs: exp.trigger.HostGroupIDs,
			HostIDs:      exp.trigger.HostIDs,
			Tags:         exp.trigger.Tags,
			TemplateIDs:  exp.trigger.TemplateIDs,
			Messages:     make([]MessageReport, 0, len(exp.messages)),
		}
		for i := range exp.messages {
			msg := &exp.messages[i]
			index.Resolve(msg)
			for j := range msg.Recipients {
				msg.Recipients[j].ApplyRights(exp.trigger.HostGroupIDs, opts.ShowUnavailable)
			}
			report.Messages = append(report.Messages, mapMessage(msg))
		}
		result.Triggers = append(result.Triggers, report)
	}
	return result
}

func mapMessage(msg *routing.Message) MessageReport {
	report := MessageReport{
		Phase:         string(msg.Phase),
		PhaseLabel:    msg.Phase.Label(),
		ActionID:      msg.ActionID,
		ActionName:    msg.ActionName,
		MediaTypeID:   msg.MediaTypeID,
		MediaTypeName: msg.MediaTypeName,
		Subject:       msg.Subject,
		Body:          msg.Body,
		StartOffset:   msg.StartOffset,
		RepeatCount:   msg.RepeatCount,
		Recipients:    make([]RecipientReport, 0, len(msg.Recipients)),
	}
	for _, rec := range msg.Recipients {
		report.Recipients = append(report.Recipients, RecipientReport{
			UserID:            rec.UserID,
			Username:          rec.Username,
			FullName:          rec.FullName,
			RoleType:          rec.RoleType,
			HasRight:          rec.HasRight,
			Show:              rec.Show,
			ReachableViaMedia: rec.ReachableViaMedia,
		})
	}
	return report
}
