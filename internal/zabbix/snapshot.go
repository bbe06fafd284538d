package zabbix

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrHostNotFound reports that the requested host does not exist or is not
// visible to the session.
var ErrHostNotFound = errors.New("zabbix: host not found")

// Snapshot is one immutable view of the configuration a resolution pass
// needs. It is fetched in full before the pass runs and never refreshed.
type Snapshot struct {
	Host       Host
	Triggers   []Trigger
	Templates  []Template
	Actions    []Action
	MediaTypes []MediaType
	UserGroups []UserGroup
	Users      []User
}

// FetchSnapshot collects the host's triggers and every entity the routing
// pass consumes in a fixed order. The session must already be logged in.
func (c *Client) FetchSnapshot(ctx context.Context, hostID string) (*Snapshot, error) {
	hosts, err := c.HostGet(ctx, []string{hostID})
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrHostNotFound, hostID)
	}
	snap := &Snapshot{Host: hosts[0]}

	snap.Triggers, err = c.TriggerGet(ctx, []string{hostID})
	if err != nil {
		return nil, err
	}

	if ids := templateTriggerIDs(snap.Triggers); len(ids) > 0 {
		snap.Templates, err = c.TemplateGet(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	snap.Actions, err = c.ActionGet(ctx)
	if err != nil {
		return nil, err
	}
	snap.MediaTypes, err = c.MediaTypeGet(ctx)
	if err != nil {
		return nil, err
	}
	snap.UserGroups, err = c.UserGroupGet(ctx)
	if err != nil {
		return nil, err
	}
	snap.Users, err = c.UserGet(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// templateTriggerIDs returns the unique template-matching identity of every
// trigger: the template trigger id for inherited triggers, the trigger's own
// id otherwise.
func templateTriggerIDs(triggers []Trigger) []string {
	set := make(map[string]struct{}, len(triggers))
	for _, t := range triggers {
		id := t.TriggerID
		if t.TemplateID != "" && t.TemplateID != "0" {
			id = t.TemplateID
		}
		set[id] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
