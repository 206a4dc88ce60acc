package beanio

import (
	"fmt"
	"strconv"
)

// CheckpointState is the flat key->value map described in §4.6 and §6: a
// host-persisted snapshot of every Selector's occurrence count, keyed
// "<namespace>.<selectorName>.count". Only count is persisted today; the
// format is forward-compatible (unknown keys on restore are ignored).
type CheckpointState map[string]string

// SnapshotState walks tree depth-first and writes every Selector's count
// into a fresh CheckpointState under namespace, per §4.6.
func SnapshotState(tree *Tree, namespace string) CheckpointState {
	state := make(CheckpointState)
	for _, sel := range tree.nodes {
		state[snapshotKey(namespace, sel.Name())] = strconv.Itoa(sel.Count())
	}
	return state
}

// RestoreState resets tree, then restores every Selector's count from
// state. It fails fast if any expected key (one per Selector in tree) is
// absent, per §4.6: "Restore fails fast if any expected key is absent."
// Unknown keys in state are ignored.
func RestoreState(tree *Tree, namespace string, state CheckpointState) error {
	tree.Reset()
	for _, sel := range tree.nodes {
		key := snapshotKey(namespace, sel.Name())
		raw, ok := state[key]
		if !ok {
			return fmt.Errorf("beanio: restore missing required checkpoint key %q", key)
		}
		count, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("beanio: restore checkpoint key %q has non-integer value %q", key, raw)
		}
		sel.setCount(count)
	}
	return nil
}
