package handler

import (
	"fmt"
	"strings"

	"github.com/iliyamo/fyyur/internal/service"
)

var outcomeVerbs = map[service.Op]string{
	service.OpCreate: "listed",
	service.OpUpdate: "edited",
	service.OpDelete: "removed",
}

// Message renders the text shown to the user after a command.
func Message(o service.Outcome) string {
	entity := capitalize(string(o.Entity))
	verb := outcomeVerbs[o.Op]

	subject := entity
	if o.Name != "" && o.Entity != service.EntityShow {
		subject = entity + " " + o.Name
	}

	switch o.Reason {
	case service.ReasonNone:
		if o.Op == service.OpDelete {
			return fmt.Sprintf("%s has been removed.", subject)
		}
		return fmt.Sprintf("%s was successfully %s!", subject, verb)
	case service.ReasonNotFound:
		return fmt.Sprintf("%s not found.", entity)
	default:
		return fmt.Sprintf("An error occurred. %s could not be %s.", subject, verb)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
