package render

import (
	"fmt"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/gateway"
)

const MsgSessionInvalid = "Issue with the server! Please login again."

// Message returns the user-facing text for an outcome, or empty when the
// outcome needs none. target names the container a delete was issued for.
func Message(o engine.Outcome, target string) string {
	switch out := o.(type) {
	case engine.Error:
		if target == "" {
			return MsgSessionInvalid
		}
		return DeleteFailed(target, out.Cause)
	case engine.ItemError:
		if out.Index >= 0 && out.Index < len(out.Snapshot) {
			r := out.Snapshot[out.Index]
			return fmt.Sprintf("%s: %s", r.Name, r.Status)
		}
		return engine.StatusRetry
	case engine.DeleteLoading:
		return fmt.Sprintf("Please wait until the %s is deleted", out.Target.Name)
	case engine.DeleteSuccess:
		return fmt.Sprintf("Container %s deleted", out.Target.Name)
	default:
		return ""
	}
}

// DeleteFailed distinguishes a refused delete, which the user may retry, from
// one that points at a broken session.
func DeleteFailed(name string, cause error) string {
	if kind, ok := gateway.KindOf(cause); ok && (kind == gateway.DomainError || kind == gateway.ServerError) {
		return fmt.Sprintf("Error deleting container %s! Please try again.", name)
	}
	return fmt.Sprintf("Error deleting container %s! Please logout and login again.", name)
}
