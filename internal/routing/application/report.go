package application

// Result is the outcome of one resolution pass. It carries no timestamps or
// identifiers of its own, so resolving the same snapshot twice produces
// byte-identical JSON.
type Result struct {
	Host            HostInfo        `json:"host"`
	ShowUnavailable bool            `json:"show_unavailable"`
	Triggers        []TriggerReport `json:"triggers"`
	SkippedActions  []SkippedAction `json:"skipped_actions"`
}

// TriggerReport is the resolved routing of one trigger.
type TriggerReport struct {
	TriggerID    string            `json:"triggerid"`
	Name         string            `json:"name"`
	Priority     string            `json:"priority"`
	HostGroupIDs []string          `json:"hostgroup_ids"`
	HostIDs      []string          `json:"host_ids"`
	Tags         map[string]string `json:"tags"`
	TemplateIDs  []string          `json:"template_ids"`
	Messages     []MessageReport   `json:"messages"`
}

// MessageReport is one notification that would be generated.
type MessageReport struct {
	Phase         string            `json:"phase"`
	PhaseLabel    string            `json:"phase_label"`
	ActionID      string            `json:"actionid"`
	ActionName    string            `json:"action_name"`
	MediaTypeID   string            `json:"mediatypeid"`
	MediaTypeName string            `json:"mediatype_name"`
	Subject       string            `json:"subject"`
	Body          string            `json:"body"`
	StartOffset   string            `json:"start_offset"`
	RepeatCount   string            `json:"repeat_count"`
	Recipients    []RecipientReport `json:"recipients"`
}

// RecipientReport is one resolved notification target.
type RecipientReport struct {
	UserID            string `json:"userid"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	RoleType          string `json:"role_type"`
	HasRight          bool   `json:"has_right"`
	Show              bool   `json:"show"`
	ReachableViaMedia bool   `json:"reachable_via_media"`
}

// SkippedAction records an action whose filter could not be evaluated for a
// trigger. The action is excluded from that trigger's routing only.
type SkippedAction struct {
	ActionID   string `json:"actionid"`
	ActionName string `json:"action_name"`
	TriggerID  string `json:"triggerid"`
	Reason     string `json:"reason"`
}

// TriggerCount returns the number of triggers in the result.
func (r Result) TriggerCount() int { return len(r.Triggers) }

// MessageCount returns the number of messages across all triggers.
func (r Result) MessageCount() int {
	n := 0
	for _, t := range r.Triggers {
		n += len(t.Messages)
	}
	return n
}

// RecipientCount returns the number of recipient entries across all messages.
func (r Result) RecipientCount() int {
	n := 0
	for _, t := range r.Triggers {
		for _, m := range t.Messages {
			n += len(m.Recipients)
		}
	}
	return n
}
