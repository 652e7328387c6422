package service

// Op names the command an Outcome describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Entity names the kind of record a command touched.
type Entity string

const (
	EntityVenue  Entity = "venue"
	EntityArtist Entity = "artist"
	EntityShow   Entity = "show"
)

// Reason classifies why a command did not succeed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonNotFound    Reason = "not_found"
	ReasonPersistence Reason = "persistence"
	ReasonValidation  Reason = "validation"
)

// Outcome reports the result of a command. Cause is kept for logging and
// must not be shown to users.
type Outcome struct {
	Op     Op
	Entity Entity
	ID     int64
	Name   string
	Reason Reason
	Cause  error
}

// OK reports whether the command committed.
func (o Outcome) OK() bool {
	return o.Reason == ReasonNone
}
