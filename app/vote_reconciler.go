package app

import (
	"sync"

	"github.com/chetan123445/VK-WebPortal-sub002/db"
)

// VoteReconciler reconciles optimistic local vote state against confirmations
// fetched from the server. The client records the value it last intended to
// set; a later background fetch that reports a different value is treated as
// stale and discarded, so an out-of-order response can never overwrite a newer
// local action.
type VoteReconciler struct {
	mu      sync.Mutex
	intents map[db.VoteTarget]int8
}

func NewVoteReconciler() *VoteReconciler {
	return &VoteReconciler{intents: make(map[db.VoteTarget]int8)}
}

// Intend records value as the user's latest intended vote on tgt. A toggle-off
// is recorded as 0.
func (vr *VoteReconciler) Intend(tgt db.VoteTarget, value int8) {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	vr.intents[tgt] = value
}

// Pending returns the outstanding intent for tgt, if any.
func (vr *VoteReconciler) Pending(tgt db.VoteTarget) (int8, bool) {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	value, ok := vr.intents[tgt]
	return value, ok
}

// Confirm reconciles serverValue (the vote the server has recorded for this
// identity) against the pending intent. It returns the value to display and
// whether the confirmation was accepted. A confirmation matching the intent
// settles it; a mismatching one is stale and the local intent wins.
func (vr *VoteReconciler) Confirm(tgt db.VoteTarget, serverValue int8) (int8, bool) {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	intended, ok := vr.intents[tgt]
	if !ok {
		return serverValue, true
	}
	if intended != serverValue {
		return intended, false
	}
	delete(vr.intents, tgt)
	return serverValue, true
}
