package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Password string  `json:"password" validate:"omitempty,pwd"`
	Status   *string `json:"listing_status" validate:"omitempty,listingstatus"`
	Price    float64 `json:"price" validate:"gt=0"`
	Image    string  `form:"image_url" validate:"omitempty,url"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetails_FieldMessages(t *testing.T) {
	bad := "reserved"
	err := newValidator().Struct(sample{
		Password: strings.Repeat("x", 73),
		Status:   &bad,
		Price:    0,
		Image:    "not a url",
	})
	d := ToDetails(err)
	assert.Equal(t, "must be at most 72 characters long", d["password"])
	assert.Equal(t, "must be one of: active, inactive, sold", d["listing_status"])
	assert.Equal(t, "must be greater than 0", d["price"])
	assert.Equal(t, "must be a valid URL", d["image_url"])
}

func TestToDetails_Valid(t *testing.T) {
	ok := "sold"
	err := newValidator().Struct(sample{Password: "secret", Status: &ok, Price: 10})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(nil))
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v sample
	err := json.Unmarshal([]byte(`{"price":"cheap"}`), &v)
	assert.Equal(t, map[string]string{"price": "must be a float64"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"price" 1}`), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
}
