package contact

import "fmt"

// Update lists replacement values for a contact. Nil fields are left unchanged.
type Update struct {
	FirstName   *string `yaml:"first_name"`
	LastName    *string `yaml:"last_name"`
	Address     *string `yaml:"address"`
	City        *string `yaml:"city"`
	State       *string `yaml:"state"`
	Zip         *string `yaml:"zip"`
	PhoneNumber *string `yaml:"phone_number"`
	Email       *string `yaml:"email"`
}

// Set returns a copy of u with field f replaced by v.
func (u Update) Set(f Field, v string) (Update, error) {
	switch f {
	case FirstName:
		u.FirstName = &v
	case LastName:
		u.LastName = &v
	case Address:
		u.Address = &v
	case City:
		u.City = &v
	case State:
		u.State = &v
	case Zip:
		u.Zip = &v
	case PhoneNumber:
		u.PhoneNumber = &v
	case Email:
		u.Email = &v
	default:
		return u, fmt.Errorf("contact: unknown field %q", f)
	}
	return u, nil
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Address == nil && u.City == nil &&
		u.State == nil && u.Zip == nil && u.PhoneNumber == nil && u.Email == nil
}

// Apply returns d with the non-nil fields of u merged in.
func (u Update) Apply(d Details) Details {
	if u.FirstName != nil {
		d.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		d.LastName = *u.LastName
	}
	if u.Address != nil {
		d.Address = *u.Address
	}
	if u.City != nil {
		d.City = *u.City
	}
	if u.State != nil {
		d.State = *u.State
	}
	if u.Zip != nil {
		d.Zip = *u.Zip
	}
	if u.PhoneNumber != nil {
		d.PhoneNumber = *u.PhoneNumber
	}
	if u.Email != nil {
		d.Email = *u.Email
	}
	return d
}

// UpdateDetails overwrites the fields set in u. Values are not validated.
func (c *Contact) UpdateDetails(u Update) {
	c.Details = u.Apply(c.Details)
}
