package application

import (
	"encoding/json"
	"strconv"
	"strings"

	routing "notify-audit/internal/routing/domain"
	"notify-audit/internal/zabbix"
)

// HostInfo identifies the host a resolution pass was run for.
type HostInfo struct {
	ID   string `json:"hostid"`
	Name string `json:"name"`
}

// Snapshot is the request-scoped, domain-typed view of one configuration
// fetch. Every resolution pass receives its own snapshot; nothing here is
// shared or mutated after construction.
type Snapshot struct {
	Host       HostInfo
	Triggers   []routing.Trigger
	Templates  []routing.Template
	Actions    []routing.Action
	MediaTypes []routing.MediaType
	UserGroups []routing.UserGroup
	Users      []routing.User
}

// BuildSnapshot maps the wire entities of one fetch into domain types.
func BuildSnapshot(src *zabbix.Snapshot) Snapshot {
	snap := Snapshot{
		Host: HostInfo{ID: src.Host.HostID, Name: src.Host.Name},
	}
	for _, t := range src.Triggers {
		snap.Triggers = append(snap.Triggers, mapTrigger(t))
	}
	for _, tpl := range src.Templates {
		snap.Templates = append(snap.Templates, mapTemplate(tpl))
	}
	for _, a := range src.Actions {
		snap.Actions = append(snap.Actions, mapAction(a))
	}
	for _, mt := range src.MediaTypes {
		snap.MediaTypes = append(snap.MediaTypes, mapMediaType(mt))
	}
	for _, g := range src.UserGroups {
		snap.UserGroups = append(snap.UserGroups, mapUserGroup(g))
	}
	for _, u := range src.Users {
		snap.Users = append(snap.Users, mapUser(u))
	}
	return snap
}

func mapTrigger(src zabbix.Trigger) routing.Trigger {
	t := routing.Trigger{
		ID:                src.TriggerID,
		Name:              src.Description,
		EventName:         src.EventName,
		Priority:          src.Priority,
		Tags:              make(map[string]string, len(src.Tags)),
		TemplateTriggerID: src.TriggerID,
	}
	if src.TemplateID != "" && src.TemplateID != "0" {
		t.TemplateTriggerID = src.TemplateID
	}
	if src.DiscoveryRule != nil {
		t.DiscoveryTemplateID = src.DiscoveryRule.TemplateID
	}
	for _, g := range src.HostGroups {
		t.HostGroupIDs = append(t.HostGroupIDs, g.GroupID)
	}
	for _, h := range src.Hosts {
		t.HostIDs = append(t.HostIDs, h.HostID)
	}
	for _, tag := range src.Tags {
		t.Tags[tag.Tag] = tag.Value
	}
	return t
}

func mapTemplate(src zabbix.Template) routing.Template {
	tpl := routing.Template{ID: src.TemplateID}
	for _, t := range src.Triggers {
		tpl.TriggerIDs = append(tpl.TriggerIDs, t.TriggerID)
	}
	for _, d := range src.Discoveries {
		tpl.DiscoveryItemIDs = append(tpl.DiscoveryItemIDs, d.ItemID)
	}
	return tpl
}

func mapAction(src zabbix.Action) routing.Action {
	action := routing.Action{
		ID:        src.ActionID,
		Name:      src.Name,
		EscPeriod: src.EscPeriod,
	}
	if src.Filter != nil && len(src.Filter.Conditions) > 0 {
		filter := &routing.Filter{EvalFormula: src.Filter.EvalFormula}
		for _, c := range src.Filter.Conditions {
			filter.Conditions = append(filter.Conditions, routing.Condition{
				Type:      routing.ConditionType(c.ConditionType),
				Operator:  routing.Operator(c.Operator),
				Value:     c.Value,
				Value2:    c.Value2,
				FormulaID: c.FormulaID,
			})
		}
		action.Filter = filter
	}
	action.ProblemOperations = mapOperations(src.Operations)
	action.UpdateOperations = mapOperations(src.UpdateOperations)
	action.RecoveryOperations = mapOperations(src.RecoveryOperations)
	return action
}

func mapOperations(src []zabbix.Operation) []routing.Operation {
	ops := make([]routing.Operation, 0, len(src))
	for _, o := range src {
		op := routing.Operation{
			ID:          o.OperationID,
			Kind:        routing.OperationKind(o.OperationType),
			EscPeriod:   o.EscPeriod,
			EscStepFrom: atoiOr(o.EscStepFrom, 1),
			EscStepTo:   atoiOr(o.EscStepTo, 0),
		}
		if o.OpMessage != nil {
			op.Message = routing.OpMessage{
				MediaTypeID: o.OpMessage.MediaTypeID,
				Subject:     o.OpMessage.Subject,
				Body:        o.OpMessage.Message,
				UseDefault:  o.OpMessage.DefaultMsg == "1",
			}
		}
		for _, u := range o.OpMessageUsr {
			op.UserIDs = append(op.UserIDs, u.UserID)
		}
		for _, g := range o.OpMessageGrp {
			op.GroupIDs = append(op.GroupIDs, g.UsrGrpID)
		}
		ops = append(ops, op)
	}
	return ops
}

func mapMediaType(src zabbix.MediaType) routing.MediaType {
	mt := routing.MediaType{ID: src.MediaTypeID, Name: src.Name}
	for _, tpl := range src.MessageTemplates {
		mt.Templates = append(mt.Templates, routing.MessageTemplate{
			Phase:       routing.Phase(tpl.Recovery),
			EventSource: tpl.EventSource,
			Subject:     tpl.Subject,
			Body:        tpl.Message,
		})
	}
	return mt
}

func mapUserGroup(src zabbix.UserGroup) routing.UserGroup {
	group := routing.UserGroup{
		ID:              src.UsrGrpID,
		HostGroupRights: make(map[string]int, len(src.HostGroupRights)),
	}
	for _, u := range src.Users {
		group.UserIDs = append(group.UserIDs, u.UserID)
	}
	for _, right := range src.HostGroupRights {
		group.HostGroupRights[right.ID] = atoiOr(right.Permission, 0)
	}
	return group
}

func mapUser(src zabbix.User) routing.User {
	user := routing.User{
		ID:          src.UserID,
		Username:    src.Username,
		FullName:    strings.TrimSpace(src.Name + " " + src.Surname),
		RoleType:    src.Role.Type,
		ActiveMedia: make(map[string]string, len(src.Medias)),
	}
	for _, g := range src.UsrGrps {
		user.GroupIDs = append(user.GroupIDs, g.UsrGrpID)
	}
	for _, m := range src.Medias {
		// Active is "0" for enabled media on the wire.
		if m.Active == "0" {
			user.ActiveMedia[m.MediaTypeID] = decodeSendTo(m.SendTo)
		}
	}
	return user
}

// decodeSendTo flattens the sendto field, which is a plain string for most
// media types but an address list for email.
func decodeSendTo(raw json.RawMessage) string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, ", ")
	}
	return string(raw)
}

func atoiOr(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
