package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping or billing address
// It is immutable - all operations return new Address instances
type Address struct {
	fullName   string
	street     string
	city       string
	state      string
	postalCode string
	country    string
	phone      string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPhone sets the contact phone for the address
func WithPhone(phone string) AddressOption {
	return func(a *Address) {
		a.phone = strings.TrimSpace(phone)
	}
}

// WithState sets the state or province for the address
func WithState(state string) AddressOption {
	return func(a *Address) {
		a.state = strings.TrimSpace(state)
	}
}

// NewAddress creates a new Address with the required fields.
// Full name, street, city, postal code and country are required.
func NewAddress(fullName, street, city, postalCode, country string, opts ...AddressOption) (Address, error) {
	fullName = strings.TrimSpace(fullName)
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if fullName == "" {
		return Address{}, fmt.Errorf("recipient name cannot be empty")
	}
	if len(fullName) > 100 {
		return Address{}, fmt.Errorf("recipient name cannot exceed 100 characters")
	}
	if street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(street) > 500 {
		return Address{}, fmt.Errorf("street cannot exceed 500 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if postalCode == "" {
		return Address{}, fmt.Errorf("postal code cannot be empty")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if country == "" {
		return Address{}, fmt.Errorf("country cannot be empty")
	}
	if len(country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	addr := Address{
		fullName:   fullName,
		street:     street,
		city:       city,
		postalCode: postalCode,
		country:    country,
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.state) > 100 {
		return Address{}, fmt.Errorf("state cannot exceed 100 characters")
	}
	if len(addr.phone) > 30 {
		return Address{}, fmt.Errorf("phone cannot exceed 30 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(fullName, street, city, postalCode, country string, opts ...AddressOption) Address {
	addr, err := NewAddress(fullName, street, city, postalCode, country, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// FullName returns the recipient name
func (a Address) FullName() string {
	return a.fullName
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state or province
func (a Address) State() string {
	return a.state
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// Phone returns the contact phone
func (a Address) Phone() string {
	return a.phone
}

// IsEmpty returns true if the address has no content
func (a Address) IsEmpty() bool {
	return a.fullName == "" && a.street == "" && a.city == "" && a.postalCode == ""
}

// FormatLines returns the address as postal label lines
func (a Address) FormatLines() []string {
	if a.IsEmpty() {
		return nil
	}

	lines := make([]string, 0, 4)
	lines = append(lines, a.fullName, a.street)

	cityLine := a.city
	if a.state != "" {
		cityLine += ", " + a.state
	}
	cityLine += " " + a.postalCode
	lines = append(lines, cityLine, a.country)

	return lines
}

// String returns a single-line representation of the address
func (a Address) String() string {
	return strings.Join(a.FormatLines(), ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		FullName:   a.fullName,
		Street:     a.street,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
		Phone:      a.phone,
	})
}

// UnmarshalJSON implements json.Unmarshaler, delegating to the NewAddress
// factory so validation rules are applied consistently
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Allow empty addresses from JSON
	if v.FullName == "" && v.Street == "" && v.City == "" && v.PostalCode == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.FullName, v.Street, v.City, v.PostalCode, v.Country,
		WithState(v.State), WithPhone(v.Phone))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage
// Stores as JSON string
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
