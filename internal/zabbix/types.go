package zabbix

import "encoding/json"

// Entity shapes returned by the monitoring API, limited to the fields the
// routing pass consumes.

// Host identifies a monitored host.
type Host struct {
	HostID string `json:"hostid"`
	Name   string `json:"name"`
}

// Trigger is an alerting rule attached to hosts.
type Trigger struct {
	TriggerID     string         `json:"triggerid"`
	Description   string         `json:"description"`
	EventName     string         `json:"event_name"`
	Priority      string         `json:"priority"`
	TemplateID    string         `json:"templateid"`
	HostGroups    []GroupRef     `json:"hostgroups"`
	Hosts         []HostRef      `json:"hosts"`
	Tags          []Tag          `json:"tags"`
	DiscoveryRule *DiscoveryRule `json:"discoveryRule"`
}

// GroupRef references a host group.
type GroupRef struct {
	GroupID string `json:"groupid"`
}

// HostRef references a host.
type HostRef struct {
	HostID string `json:"hostid"`
}

// Tag is a trigger tag.
type Tag struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// DiscoveryRule links a discovered trigger to its template item.
type DiscoveryRule struct {
	TemplateID string `json:"templateid"`
}

// UnmarshalJSON tolerates the API returning an empty array instead of an
// object when a trigger has no discovery rule.
func (d *DiscoveryRule) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*d = DiscoveryRule{}
		return nil
	}
	type alias DiscoveryRule
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*d = DiscoveryRule(out)
	return nil
}

// Template carries the trigger and discovery lineage of a template.
type Template struct {
	TemplateID  string          `json:"templateid"`
	Triggers    []TriggerRef    `json:"triggers"`
	Discoveries []DiscoveryItem `json:"discoveries"`
}

// TriggerRef references a trigger.
type TriggerRef struct {
	TriggerID string `json:"triggerid"`
}

// DiscoveryItem references a low-level discovery item.
type DiscoveryItem struct {
	ItemID string `json:"itemid"`
}

// Action is a notification rule.
type Action struct {
	ActionID           string      `json:"actionid"`
	Name               string      `json:"name"`
	EscPeriod          string      `json:"esc_period"`
	Filter             *Filter     `json:"filter"`
	Operations         []Operation `json:"operations"`
	UpdateOperations   []Operation `json:"update_operations"`
	RecoveryOperations []Operation `json:"recovery_operations"`
}

// Filter is an action's condition filter.
type Filter struct {
	EvalFormula string      `json:"eval_formula"`
	Conditions  []Condition `json:"conditions"`
}

// Condition is one filter condition.
type Condition struct {
	ConditionType string `json:"conditiontype"`
	Operator      string `json:"operator"`
	Value         string `json:"value"`
	Value2        string `json:"value2"`
	FormulaID     string `json:"formulaid"`
}

// Operation is one action operation.
type Operation struct {
	OperationID   string      `json:"operationid"`
	OperationType string      `json:"operationtype"`
	EscPeriod     string      `json:"esc_period"`
	EscStepFrom   string      `json:"esc_step_from"`
	EscStepTo     string      `json:"esc_step_to"`
	OpMessage     *OpMessage  `json:"opmessage"`
	OpMessageUsr  []UserRef   `json:"opmessage_usr"`
	OpMessageGrp  []UsrGrpRef `json:"opmessage_grp"`
}

// OpMessage is the message payload of a send-message operation.
type OpMessage struct {
	MediaTypeID string `json:"mediatypeid"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	DefaultMsg  string `json:"default_msg"`
}

// UserRef references a user.
type UserRef struct {
	UserID string `json:"userid"`
}

// UsrGrpRef references a user group.
type UsrGrpRef struct {
	UsrGrpID string `json:"usrgrpid"`
}

// MediaType is a notification channel definition.
type MediaType struct {
	MediaTypeID      string            `json:"mediatypeid"`
	Name             string            `json:"name"`
	MessageTemplates []MessageTemplate `json:"message_templates"`
}

// MessageTemplate overrides message content per lifecycle phase; "recovery"
// carries the phase code on the wire.
type MessageTemplate struct {
	Recovery    string `json:"recovery"`
	EventSource string `json:"eventsource"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// UserGroup carries membership and host group access rights.
type UserGroup struct {
	UsrGrpID        string           `json:"usrgrpid"`
	Users           []UserRef        `json:"users"`
	HostGroupRights []HostGroupRight `json:"hostgroup_rights"`
}

// HostGroupRight grants a permission level on a host group.
type HostGroupRight struct {
	ID         string `json:"id"`
	Permission string `json:"permission"`
}

// User is a platform user with notification media.
type User struct {
	UserID   string      `json:"userid"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Role     Role        `json:"role"`
	UsrGrps  []UsrGrpRef `json:"usrgrps"`
	Medias   []Media     `json:"medias"`
}

// Role is a user role.
type Role struct {
	RoleID string `json:"roleid"`
	Type   string `json:"type"`
}

// Media is one configured notification medium of a user. SendTo is a string
// for most media types but an address list for email.
type Media struct {
	MediaTypeID string          `json:"mediatypeid"`
	Active      string          `json:"active"`
	SendTo      json.RawMessage `json:"sendto"`
}
