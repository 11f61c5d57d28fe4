package checkout

import "strings"

// Field names a buyer-editable form field.
type Field string

const (
	FieldCNPJ      Field = "cnpj"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
)

// Fields lists the editable fields in display order.
func Fields() []Field {
	return []Field{FieldCNPJ, FieldEmail, FieldPhone, FieldFirstName, FieldLastName}
}

// ParseField resolves a submitted field name.
func ParseField(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for _, field := range Fields() {
		if string(field) == name {
			return field, true
		}
	}
	return "", false
}

// Term is a financing term offer expressed in days.
type Term int

// NoTerm is the sentinel for "no term selected".
const NoTerm Term = 0

// FormData is the buyer input plus the snapshots attached at request time.
type FormData struct {
	CNPJ      string
	Email     string
	Phone     string
	FirstName string
	LastName  string
	// Term is NoTerm until an order payload is built.
	Term Term
	// Cart is nil until a quote or confirm request snapshots it.
	Cart []CartItem
}

// Get returns the value of field.
func (d FormData) Get(field Field) string {
	switch field {
	case FieldCNPJ:
		return d.CNPJ
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	default:
		return ""
	}
}

func (d *FormData) set(field Field, value string) bool {
	switch field {
	case FieldCNPJ:
		d.CNPJ = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	default:
		return false
	}
	return true
}

// FormErrors maps a failing field to its validation message. A missing entry
// means the field is valid.
type FormErrors map[Field]string

func (e FormErrors) clone() FormErrors {
	out := make(FormErrors, len(e))
	for field, message := range e {
		out[field] = message
	}
	return out
}
