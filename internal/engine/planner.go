package engine

import (
	"sort"
	"time"

	"mcpsync/internal/model"
)

// BuildPlan computes, per target, the operations that reconcile the
// current state into the state the policies declare. Pure: no file access,
// and identical inputs yield an identical plan, so planning twice without
// applying converges on the same operations.
//
// Managed entry names are the policy names. With preserveUnmanaged, every
// other entry found in a target is carried into the desired state
// untouched; without it, anything the policies do not declare is removed.
// A policy that exists but no longer applies to a target produces a remove
// there: its name stays managed, so preservation never shelters it.
func BuildPlan(current map[string]model.TargetConfig, paths map[string]string, policies []model.ManagedPolicy, preserveUnmanaged bool) *SyncPlan {
	plan := &SyncPlan{
		GeneratedAt: time.Now().UTC(),
		Targets:     make(map[string]TargetSyncPlan, len(paths)),
	}

	targetIDs := make([]string, 0, len(paths))
	for id := range paths {
		targetIDs = append(targetIDs, id)
	}
	sort.Strings(targetIDs)

	for _, targetID := range targetIDs {
		cur := current[targetID]
		desired := desiredFor(targetID, cur, policies, preserveUnmanaged)
		ops := diffConfigs(cur, desired)

		plan.Targets[targetID] = TargetSyncPlan{
			TargetID:   targetID,
			ConfigPath: paths[targetID],
			Current:    cur.Clone(),
			Desired:    desired,
			Operations: ops,
			HasChanges: len(ops) > 0,
		}
		plan.TotalOperations += len(ops)
	}
	return plan
}

func desiredFor(targetID string, current model.TargetConfig, policies []model.ManagedPolicy, preserveUnmanaged bool) model.TargetConfig {
	desired := make(model.TargetConfig)
	managed := make(map[string]bool, len(policies))

	for _, p := range policies {
		managed[p.Name] = true
		if p.AppliesTo(targetID) {
			desired[p.Name] = p.EffectiveDefinition(targetID)
		}
	}

	if preserveUnmanaged {
		for name, def := range current {
			if managed[name] {
				continue
			}
			desired[name] = def.Clone()
		}
	}
	return desired
}

// diffConfigs returns the operations turning current into desired, sorted
// by entry name.
func diffConfigs(current, desired model.TargetConfig) []SyncOperation {
	names := make(map[string]bool, len(current)+len(desired))
	for name := range current {
		names[name] = true
	}
	for name := range desired {
		names[name] = true
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	var ops []SyncOperation
	for _, name := range ordered {
		curDef, inCurrent := current[name]
		desDef, inDesired := desired[name]

		switch {
		case inDesired && !inCurrent:
			after := desDef.Clone()
			ops = append(ops, SyncOperation{Type: OpAdd, Name: name, After: &after})
		case !inDesired && inCurrent:
			before := curDef.Clone()
			ops = append(ops, SyncOperation{Type: OpRemove, Name: name, Before: &before})
		case !curDef.Equal(desDef):
			before := curDef.Clone()
			after := desDef.Clone()
			ops = append(ops, SyncOperation{Type: OpUpdate, Name: name, Before: &before, After: &after})
		}
	}
	return ops
}
