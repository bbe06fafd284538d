package routing

// Trigger is an alerting rule bound to one or more hosts, as seen by the
// notification routing pass.
type Trigger struct {
	ID           string
	Name         string
	EventName    string
	HostGroupIDs []string
	HostIDs      []string
	Tags         map[string]string
	Priority     string

	// TemplateTriggerID is the identity used for template matching: the id of
	// the template trigger this one was inherited from, or the trigger's own
	// id when it is not templated.
	TemplateTriggerID string
	// DiscoveryTemplateID links a discovered trigger to the template item of
	// its discovery rule, when present.
	DiscoveryTemplateID string
	// TemplateIDs is filled by SelectTemplates.
	TemplateIDs []string
}

// Template is the template lineage information needed to match
// template-scoped filter conditions.
type Template struct {
	ID               string
	TriggerIDs       []string
	DiscoveryItemIDs []string
}

// SelectTemplates records which templates the trigger descends from, either
// through its template trigger or through the discovery rule that created it.
func (t *Trigger) SelectTemplates(templates []Template) {
	for _, tpl := range templates {
		if containsString(tpl.TriggerIDs, t.TemplateTriggerID) {
			t.TemplateIDs = append(t.TemplateIDs, tpl.ID)
		}
		if t.DiscoveryTemplateID != "" && containsString(tpl.DiscoveryItemIDs, t.DiscoveryTemplateID) {
			t.TemplateIDs = append(t.TemplateIDs, tpl.ID)
		}
	}
}

// Attribute returns the trigger attribute a condition type compares against,
// in the shape EvalCondition expects. The second return is false for
// condition types that have no trigger attribute.
func (t *Trigger) Attribute(ct ConditionType) (Attribute, bool) {
	switch ct {
	case ConditionHostGroup:
		return Attribute{Kind: AttrIDSet, IDs: t.HostGroupIDs}, true
	case ConditionHost:
		return Attribute{Kind: AttrIDSet, IDs: t.HostIDs}, true
	case ConditionTrigger:
		return Attribute{Kind: AttrIDSet, IDs: []string{t.ID}}, true
	case ConditionEventName:
		// Events fall back to the trigger name when no event name override is set.
		name := t.EventName
		if name == "" {
			name = t.Name
		}
		return Attribute{Kind: AttrScalar, Scalar: name}, true
	case ConditionPriority:
		return Attribute{Kind: AttrScalar, Scalar: t.Priority}, true
	case ConditionTemplate:
		return Attribute{Kind: AttrIDSet, IDs: t.TemplateIDs}, true
	case ConditionTagName:
		return Attribute{Kind: AttrTagNames, Tags: t.Tags}, true
	case ConditionTagValue:
		return Attribute{Kind: AttrTagValues, Tags: t.Tags}, true
	default:
		return Attribute{}, false
	}
}
