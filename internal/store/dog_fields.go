package store

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/models"
)

// dogFieldSetter decodes and validates one JSON value and returns the
// assignment to perform. Nothing is assigned until every field in a request
// has been validated.
type dogFieldSetter func(raw json.RawMessage) (func(*models.Dog), error)

var dogFieldSetters = map[string]dogFieldSetter{
	"name":        setDogName,
	"age":         setDogAge,
	"status":      setDogStatus,
	"breed_id":    setDogBreedID,
	"image_url":   stringSetter("image_url", func(d *models.Dog, v *string) { d.ImageURL = v }),
	"description": stringSetter("description", func(d *models.Dog, v *string) { d.Description = v }),
	"weight":      stringSetter("weight", func(d *models.Dog, v *string) { d.Weight = v }),
	"temperament": stringSetter("temperament", func(d *models.Dog, v *string) { d.Temperament = v }),
}

// DogCreateFields are accepted when a dog is created.
var DogCreateFields = []string{"name", "age", "status", "breed_id", "image_url", "description", "weight", "temperament"}

// DogUpdateFields are the only fields an update may change. The owner is
// never among them.
var DogUpdateFields = []string{"name", "age", "status", "image_url", "weight", "temperament", "breed_id"}

// DogPatch is a validated set of field assignments.
type DogPatch struct {
	fields  []string
	setters []func(*models.Dog)
	breedID *uint
}

// Fields lists the fields the patch changes, sorted.
func (p DogPatch) Fields() []string {
	return p.fields
}

func (p DogPatch) Apply(d *models.Dog) {
	for _, set := range p.setters {
		set(d)
	}
}

// ParseDogPatch validates the allowed keys of body. Keys outside allowed are
// ignored.
func ParseDogPatch(body map[string]json.RawMessage, allowed []string) (DogPatch, error) {
	keys := make([]string, 0, len(body))
	for _, field := range allowed {
		if _, ok := body[field]; ok {
			keys = append(keys, field)
		}
	}
	sort.Strings(keys)

	patch := DogPatch{fields: keys}
	for _, field := range keys {
		setter, ok := dogFieldSetters[field]
		if !ok {
			continue
		}

		set, err := setter(body[field])
		if err != nil {
			return DogPatch{}, err
		}
		patch.setters = append(patch.setters, set)

		if field == "breed_id" {
			probe := models.Dog{}
			set(&probe)
			patch.breedID = probe.BreedID
		}
	}

	return patch, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func invalidField(field string) error {
	return apperr.Validation(apperr.CodeDogFieldInvalid, "Invalid value for %s.", field)
}

func setDogName(raw json.RawMessage) (func(*models.Dog), error) {
	var name string
	if isNull(raw) || json.Unmarshal(raw, &name) != nil {
		return nil, invalidField("name")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(apperr.CodeDogNameRequired, "Name must be provided.")
	}

	return func(d *models.Dog) { d.Name = name }, nil
}

func setDogAge(raw json.RawMessage) (func(*models.Dog), error) {
	if isNull(raw) {
		return func(d *models.Dog) { d.Age = nil }, nil
	}

	var age int
	if err := json.Unmarshal(raw, &age); err != nil {
		return nil, invalidField("age")
	}
	if age < 0 {
		return nil, apperr.Validation(apperr.CodeDogAgeNegative, "Age must be a positive number.")
	}

	return func(d *models.Dog) { d.Age = &age }, nil
}

func setDogStatus(raw json.RawMessage) (func(*models.Dog), error) {
	var status models.DogStatus
	if isNull(raw) || json.Unmarshal(raw, &status) != nil {
		return nil, invalidField("status")
	}
	if !status.Valid() {
		return nil, apperr.Validation(apperr.CodeDogStatusInvalid, "Status must be one of %q or %q.", models.DogStatusAvailable, models.DogStatusAdopted)
	}

	return func(d *models.Dog) { d.Status = status }, nil
}

func setDogBreedID(raw json.RawMessage) (func(*models.Dog), error) {
	if isNull(raw) {
		return func(d *models.Dog) { d.BreedID = nil }, nil
	}

	var id uint
	if err := json.Unmarshal(raw, &id); err != nil || id == 0 {
		return nil, invalidField("breed_id")
	}

	return func(d *models.Dog) { d.BreedID = &id }, nil
}

// stringSetter handles the optional free-text columns. Numbers are accepted
// as their literal text so a weight of 25 and "25" mean the same thing.
func stringSetter(field string, assign func(*models.Dog, *string)) dogFieldSetter {
	return func(raw json.RawMessage) (func(*models.Dog), error) {
		if isNull(raw) {
			return func(d *models.Dog) { assign(d, nil) }, nil
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			var number json.Number
			if json.Unmarshal(raw, &number) != nil {
				return nil, invalidField(field)
			}
			value = number.String()
		}

		value = strings.TrimSpace(value)
		if value == "" {
			return func(d *models.Dog) { assign(d, nil) }, nil
		}

		return func(d *models.Dog) { assign(d, &value) }, nil
	}
}
