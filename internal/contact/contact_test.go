package contact

import (
	"errors"
	"testing"
)

func validDetails() Details {
	return Details{
		FirstName:   "John",
		LastName:    "Doe",
		Address:     "123 Main St",
		City:        "Los Angeles",
		State:       "California",
		Zip:         "900001",
		PhoneNumber: "9876543210",
		Email:       "john.doe@example.com",
	}
}

func TestNew_Valid(t *testing.T) {
	c, err := New(validDetails())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.FullName(); got != "John Doe" {
		t.Errorf("FullName() = %q, want %q", got, "John Doe")
	}
	if err := Check(&c); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}
}

func TestNew_InvalidField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Details)
		field  Field
	}{
		{"lowercase first name", func(d *Details) { d.FirstName = "john" }, FirstName},
		{"short first name", func(d *Details) { d.FirstName = "Jo" }, FirstName},
		{"digit in last name", func(d *Details) { d.LastName = "D0e" }, LastName},
		{"short address", func(d *Details) { d.Address = "12" }, Address},
		{"punctuation in address", func(d *Details) { d.Address = "123 Main St." }, Address},
		{"short city", func(d *Details) { d.City = "LA" }, City},
		{"empty state", func(d *Details) { d.State = "" }, State},
		{"five digit zip", func(d *Details) { d.Zip = "12345" }, Zip},
		{"letters in zip", func(d *Details) { d.Zip = "12a456" }, Zip},
		{"nine digit phone", func(d *Details) { d.PhoneNumber = "987654321" }, PhoneNumber},
		{"missing at sign", func(d *Details) { d.Email = "john.example.com" }, Email},
		{"long tld", func(d *Details) { d.Email = "john@example.comedy" }, Email},
		{"one char tld", func(d *Details) { d.Email = "john@example.c" }, Email},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)

			c, err := New(d)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("New() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("error should match ErrValidation")
			}
			if Check(&c) == nil {
				t.Error("failed construction should not yield a usable contact")
			}
		})
	}
}

func TestNew_AddressAcceptsUnicodeSpace(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"no-break space", "123\u00a0Main"},
		{"vertical tab", "123\vMain"},
		{"ideographic space", "123\u3000Main"},
		{"line separator", "123\u2028Main"},
		{"byte order mark", "123\ufeffMain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			d.Address = tt.value
			d.City = tt.value
			d.State = tt.value

			if _, err := New(d); err != nil {
				t.Errorf("New() error = %v, want nil", err)
			}
		})
	}
}

func TestNew_ReportsFirstFieldInOrder(t *testing.T) {
	// Given details where both zip and email are invalid
	d := validDetails()
	d.Zip = "1"
	d.Email = "nope"

	// When constructing
	_, err := New(d)

	// Then zip is reported because it is checked first
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != Zip {
		t.Fatalf("New() error = %v, want zip validation error", err)
	}
	if ve.Error() != `contact: invalid ZIP Code "1"` {
		t.Errorf("Error() = %q", ve.Error())
	}
}

func TestValidEmails(t *testing.T) {
	for _, email := range []string{
		"alice.j@example.com",
		"bob_smith@mail.example.org",
		"x-y@a.io",
		"first.last@sub.domain.info",
	} {
		d := validDetails()
		d.Email = email
		if _, err := New(d); err != nil {
			t.Errorf("New(email=%q) error = %v", email, err)
		}
	}
}

func TestCheck_RejectsUnconstructed(t *testing.T) {
	literal := Contact{Details: validDetails()}

	tests := []struct {
		name string
		c    *Contact
	}{
		{"nil", nil},
		{"zero value", &Contact{}},
		{"struct literal", &literal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Check(tt.c); !errors.Is(err, ErrInvalidContact) {
				t.Errorf("Check() = %v, want ErrInvalidContact", err)
			}
		})
	}
}

func TestUpdateDetails_OnlyProvidedFields(t *testing.T) {
	// Given a valid contact
	c := MustNew(validDetails())
	before := c.Details

	// When only the city is updated
	city := "Seattle"
	c.UpdateDetails(Update{City: &city})

	// Then city changes and every other field is untouched
	if c.City != "Seattle" {
		t.Errorf("City = %q, want %q", c.City, "Seattle")
	}
	want := before
	want.City = "Seattle"
	if c.Details != want {
		t.Errorf("Details = %+v, want %+v", c.Details, want)
	}
}

func TestUpdateDetails_SkipsValidation(t *testing.T) {
	c := MustNew(validDetails())
	zip := "1"

	c.UpdateDetails(Update{Zip: &zip})

	if c.Zip != "1" {
		t.Errorf("Zip = %q, want %q", c.Zip, "1")
	}
	var ve *ValidationError
	if err := c.Revalidate(); !errors.As(err, &ve) || ve.Field != Zip {
		t.Errorf("Revalidate() = %v, want zip validation error", err)
	}
	if err := Check(&c); err != nil {
		t.Errorf("Check() after update = %v, want nil", err)
	}
}

func TestUpdate_Set(t *testing.T) {
	u, err := Update{}.Set(PhoneNumber, "1234567890")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if u.PhoneNumber == nil || *u.PhoneNumber != "1234567890" {
		t.Errorf("PhoneNumber = %v, want 1234567890", u.PhoneNumber)
	}
	if u.Empty() {
		t.Error("Empty() = true after Set")
	}
	if !(Update{}).Empty() {
		t.Error("zero Update should be empty")
	}
	if _, err := (Update{}).Set(Field("nickname"), "x"); err == nil {
		t.Error("Set(unknown field) should fail")
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Errorf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("nickname"); err == nil {
		t.Error("ParseField(nickname) should fail")
	}
}
