package app

import (
	"testing"

	"github.com/chetan123445/VK-WebPortal-sub002/db"
)

func TestVoteReconciler(t *testing.T) {
	tgt := db.VoteTarget{Kind: db.TgtThread, Id: 7}

	t.Run("no pending intent accepts server state", func(t *testing.T) {
		vr := NewVoteReconciler()
		value, accepted := vr.Confirm(tgt, 1)
		if value != 1 || !accepted {
			t.Errorf("Confirm() = (%d, %v), want (1, true)", value, accepted)
		}
	})

	t.Run("matching confirmation settles the intent", func(t *testing.T) {
		vr := NewVoteReconciler()
		vr.Intend(tgt, 1)
		value, accepted := vr.Confirm(tgt, 1)
		if value != 1 || !accepted {
			t.Errorf("Confirm() = (%d, %v), want (1, true)", value, accepted)
		}
		if _, pending := vr.Pending(tgt); pending {
			t.Error("intent still pending after matching confirmation")
		}
	})

	t.Run("stale confirmation is discarded", func(t *testing.T) {
		vr := NewVoteReconciler()
		// user voted +1, then toggled off before the first re-fetch landed
		vr.Intend(tgt, 1)
		vr.Intend(tgt, 0)

		value, accepted := vr.Confirm(tgt, 1) // stale: reflects the first vote
		if value != 0 || accepted {
			t.Errorf("Confirm(stale) = (%d, %v), want (0, false)", value, accepted)
		}
		// the up-to-date confirmation settles it
		value, accepted = vr.Confirm(tgt, 0)
		if value != 0 || !accepted {
			t.Errorf("Confirm(current) = (%d, %v), want (0, true)", value, accepted)
		}
	})

	t.Run("targets are independent", func(t *testing.T) {
		vr := NewVoteReconciler()
		other := db.VoteTarget{Kind: db.TgtPost, Id: 7}
		vr.Intend(tgt, -1)
		if value, accepted := vr.Confirm(other, 1); value != 1 || !accepted {
			t.Errorf("Confirm(other) = (%d, %v), want (1, true)", value, accepted)
		}
	})
}
