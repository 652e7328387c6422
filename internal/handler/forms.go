package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
)

// States are the choices offered for a venue or artist state.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI",
	"ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MT", "NE", "NV", "NH",
	"NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "MD", "MA", "MI", "MN",
	"MS", "MO", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA",
	"WV", "WI", "WY",
}

// Genres are the choices offered for genre tags.
var Genres = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk",
	"Funk", "Hip-Hop", "Heavy Metal", "Instrumental", "Jazz",
	"Musical Theatre", "Pop", "Punk", "R&B", "Reggae", "Rock n Roll", "Soul",
	"Swing", "Other",
}

// startTimeLayouts are accepted for a show's start time, most specific
// first. datetime-local inputs send the "T" form.
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// VenueForm is the venue create/edit form. An unchecked seeking_talent box
// is absent from the request and binds to false.
type VenueForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,state"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description"`
}

func (f *VenueForm) trim() {
	trimAll(&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.ImageLink, &f.FacebookLink, &f.SeekingDescription)
}

// Fields converts the form into the service input.
func (f VenueForm) Fields() model.VenueFields {
	return model.VenueFields{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		Genres:             f.Genres,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		SeekingTalent:      f.SeekingTalent,
		SeekingDescription: f.SeekingDescription,
	}
}

// VenueFormFrom prefills the edit form from a stored venue.
func VenueFormFrom(v model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Genres:             v.Genres,
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

// ArtistForm is the artist create/edit form.
type ArtistForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,state"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description"`
}

func (f *ArtistForm) trim() {
	trimAll(&f.Name, &f.City, &f.State, &f.Phone, &f.ImageLink, &f.FacebookLink, &f.SeekingDescription)
}

// Fields converts the form into the service input.
func (f ArtistForm) Fields() model.ArtistFields {
	return model.ArtistFields{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		Genres:             f.Genres,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		SeekingVenue:       f.SeekingVenue,
		SeekingDescription: f.SeekingDescription,
	}
}

// ArtistFormFrom prefills the edit form from a stored artist.
func ArtistFormFrom(a model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Genres:             a.Genres,
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

// ShowForm is the show create form. Ids stay strings until validated so a
// typo is reported next to the field rather than as a bind failure.
type ShowForm struct {
	ArtistID  string `form:"artist_id" validate:"required,number"`
	VenueID   string `form:"venue_id" validate:"required,number"`
	StartTime string `form:"start_time" validate:"required,start_time"`
}

func (f *ShowForm) trim() {
	trimAll(&f.ArtistID, &f.VenueID, &f.StartTime)
}

// Fields converts the form into the service input, reading the start time
// in loc.
func (f ShowForm) Fields(loc *time.Location) (model.ShowFields, error) {
	artistID, err := strconv.ParseInt(f.ArtistID, 10, 64)
	if err != nil {
		return model.ShowFields{}, fmt.Errorf("artist_id: %w", err)
	}
	venueID, err := strconv.ParseInt(f.VenueID, 10, 64)
	if err != nil {
		return model.ShowFields{}, fmt.Errorf("venue_id: %w", err)
	}
	start, err := parseStartTime(f.StartTime, loc)
	if err != nil {
		return model.ShowFields{}, err
	}
	return model.ShowFields{ArtistID: artistID, VenueID: venueID, StartTime: start}, nil
}

func parseStartTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("start_time %q: expected YYYY-MM-DD HH:MM", s)
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// FormValidator validates bound forms. It is registered as the echo
// Validator.
type FormValidator struct {
	v *validator.Validate
}

// NewFormValidator returns a validator that reports fields by their form
// name and knows the state, genre, phone and start_time rules.
func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	must(v.RegisterValidation("state", oneOf(States)))
	must(v.RegisterValidation("genre", oneOf(Genres)))
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return isPhone(fl.Field().String())
	}))
	must(v.RegisterValidation("start_time", func(fl validator.FieldLevel) bool {
		_, err := parseStartTime(fl.Field().String(), time.UTC)
		return err == nil
	}))
	return &FormValidator{v: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func oneOf(choices []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, c := range choices {
			if s == c {
				return true
			}
		}
		return false
	}
}

// isPhone accepts xxx-xxx-xxxx with optional separators.
func isPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == ' ' || r == '.' || r == '(' || r == ')' || r == '+':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// Validate implements echo.Validator.
func (fv *FormValidator) Validate(i interface{}) error {
	return fv.v.Struct(i)
}

// FieldErrors maps each failing field to a message. Errors that are not
// validation errors are reported under "form".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "This field is required."
	case "max":
		return fmt.Sprintf("At most %s characters.", fe.Param())
	case "url":
		return "Invalid URL."
	case "number":
		return "Must be a number."
	case "phone":
		return "Invalid phone number."
	case "start_time":
		return "Use YYYY-MM-DD HH:MM."
	default:
		return "Not a valid choice."
	}
}

type trimmer interface{ trim() }

// bindForm binds the request into form, trims it and validates it. The
// returned map is nil when the form is valid.
func bindForm(c echo.Context, form trimmer) map[string]string {
	if err := c.Bind(form); err != nil {
		return map[string]string{"form": "Could not read the submitted form."}
	}
	form.trim()
	return FieldErrors(c.Validate(form))
}
