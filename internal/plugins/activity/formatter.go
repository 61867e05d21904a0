package activity

import (
	"fmt"
	"strings"
)

// Sentence renders a feed entry as a human-readable line. Unknown verbs and
// missing fields degrade to something readable; this function never errors.
func Sentence(e Entry) string {
	actor := e.ActorName
	if actor == "" {
		actor = "Someone"
	}

	object := objectPhrase(e)

	switch e.Verb {
	case "created":
		if detail := e.Meta["detail"]; detail != "" {
			return fmt.Sprintf("%s created %s (%s)", actor, object, detail)
		}
		return fmt.Sprintf("%s created %s", actor, object)

	case "updated":
		return fmt.Sprintf("%s updated %s", actor, object)

	case "deleted":
		return fmt.Sprintf("%s deleted %s", actor, object)

	case "status_changed":
		if to := transitionTarget(e.Meta["detail"]); to != "" {
			return fmt.Sprintf("%s moved %s to %s", actor, object, to)
		}
		return fmt.Sprintf("%s changed the status of %s", actor, object)

	default:
		// Unknown verb: read it literally rather than dropping the entry.
		verb := strings.ReplaceAll(e.Verb, "_", " ")
		if verb == "" {
			verb = "touched"
		}
		return fmt.Sprintf("%s %s %s", actor, verb, object)
	}
}

// objectPhrase names the thing acted upon, falling back through label, ID,
// and finally a generic noun.
func objectPhrase(e Entry) string {
	noun := e.ObjectType
	if noun == "" {
		noun = "item"
	}
	if e.ObjectLabel != "" {
		return fmt.Sprintf("%s %s", noun, e.ObjectLabel)
	}
	if e.ObjectID != "" {
		return fmt.Sprintf("%s %s", noun, e.ObjectID)
	}
	return "an " + noun
}

// transitionTarget extracts the destination from a "From -> To" detail.
func transitionTarget(detail string) string {
	_, to, found := strings.Cut(detail, "->")
	if !found {
		return strings.TrimSpace(detail)
	}
	return strings.TrimSpace(to)
}
