package entity

import (
	"encoding/json"
	"maps"
	"strings"

	"dario.cat/mergo"
)

// Car is one entry of the curated car list. OrderNo is the unique key.
// Inactive cars stay in the store but are hidden from listings; a record
// without an active flag counts as active.
type Car struct {
	OrderNo string `json:"orderNo"`
	Title   string `json:"title,omitempty"`
	Make    string `json:"make,omitempty"`
	Model   string `json:"model,omitempty"`
	Year    int    `json:"year,omitempty"`
	Mileage int    `json:"mileage,omitempty"`
	Price   string `json:"price,omitempty"`
	Image   string `json:"image,omitempty"`
	Link    string `json:"link,omitempty"`
	Active  *bool  `json:"active,omitempty"`

	// Extra holds any other fields of the stored record, kept verbatim so a
	// rewrite never drops data the service does not model.
	Extra map[string]json.RawMessage `json:"-"`
}

// carFields has Car's layout without its JSON methods.
type carFields Car

var carKeys = []string{"orderNo", "title", "make", "model", "year", "mileage", "price", "image", "link", "active"}

func isCarKey(k string) bool {
	for _, known := range carKeys {
		if strings.EqualFold(k, known) {
			return true
		}
	}
	return false
}

func (c Car) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(carFields(c))
	if err != nil || len(c.Extra) == 0 {
		return known, err
	}
	out := make(map[string]json.RawMessage, len(c.Extra)+len(carKeys))
	for k, v := range c.Extra {
		if !isCarKey(k) {
			out[k] = v
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	maps.Copy(out, fields)
	return json.Marshal(out)
}

func (c *Car) UnmarshalJSON(data []byte) error {
	var fields carFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	maps.DeleteFunc(all, func(k string, _ json.RawMessage) bool { return isCarKey(k) })
	*c = Car(fields)
	c.Extra = nil
	if len(all) > 0 {
		c.Extra = all
	}
	return nil
}

func (c Car) IsActive() bool {
	return c.Active == nil || *c.Active
}

// SetActive replaces the flag with a fresh pointer so copies never share it.
func (c *Car) SetActive(active bool) {
	c.Active = &active
}

// MergeCar overlays the non-zero fields of update onto stored and marks the
// result active. Extra fields merge key by key, update winning.
func MergeCar(stored, update Car) (Car, error) {
	var extra map[string]json.RawMessage
	if len(stored.Extra)+len(update.Extra) > 0 {
		extra = make(map[string]json.RawMessage, len(stored.Extra)+len(update.Extra))
		maps.Copy(extra, stored.Extra)
		maps.Copy(extra, update.Extra)
	}
	stored.Extra, update.Extra = nil, nil

	if err := mergo.Merge(&stored, update, mergo.WithOverride); err != nil {
		return Car{}, err
	}
	stored.Extra = extra
	stored.SetActive(true)
	return stored, nil
}
