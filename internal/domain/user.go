package domain

import "strings"

// User is the signed-in shopper.
type User struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	City           string          `json:"city,omitempty"`
	State          string          `json:"state,omitempty"`
	Zip            string          `json:"zip,omitempty"`
	Country        string          `json:"country,omitempty"`
	PaymentMethods []PaymentMethod `json:"paymentMethods,omitempty"`
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PaymentMethods = append([]PaymentMethod(nil), u.PaymentMethods...)
	return &cp
}

// Session is the persisted auth state. A nil User is the anonymous state.
type Session struct {
	User *User `json:"user"`
}

// ProfileFields are the values collected at registration.
type ProfileFields struct {
	Email     string
	FirstName string
	LastName  string
}

// ProfileUpdate is a partial profile. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=200"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State     *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Zip       *string `json:"zip,omitempty" validate:"omitempty,max=20"`
	Country   *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// Apply merges the set fields of p into u.
func (u *User) Apply(p ProfileUpdate) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Email, p.Email)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.State, p.State)
	set(&u.Zip, p.Zip)
	set(&u.Country, p.Country)
}
