package checkout

import (
	"regexp"
	"strings"
)

// taxIDDigits is the digit count of a CNPJ.
const taxIDDigits = 14

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+55\d{2}\d{4,5}\d{4}$`)
)

// Validation messages. They double as catalog keys in the validation namespace.
const (
	MessageInvalidTaxID      = "Invalid CNPJ"
	MessageInvalidEmail      = "Invalid email"
	MessageInvalidPhone      = "Phone must be in +55XXXXXXXXXXX format"
	MessageFirstNameRequired = "First name is required"
	MessageLastNameRequired  = "Last name is required"
)

// ValidateTaxID reports whether id holds exactly 14 digits once every
// non-digit is stripped. Check digits are not verified.
func ValidateTaxID(id string) bool {
	return len(DigitsOnly(id)) == taxIDDigits
}

// ValidateEmail reports whether s looks like local@domain.tld.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePhone reports whether s is +55 followed by a two digit area code
// and an eight or nine digit number, without separators.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidateRequired reports whether s has non-space content.
func ValidateRequired(s string) bool {
	return strings.TrimSpace(s) != ""
}

// DigitsOnly returns the ASCII digits of s in order.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Validate runs every field validator against data and returns the failing
// fields. An empty result means the form may be submitted.
func Validate(data FormData) FormErrors {
	errs := FormErrors{}
	if !ValidateTaxID(data.CNPJ) {
		errs[FieldCNPJ] = MessageInvalidTaxID
	}
	if !ValidateEmail(data.Email) {
		errs[FieldEmail] = MessageInvalidEmail
	}
	if !ValidatePhone(data.Phone) {
		errs[FieldPhone] = MessageInvalidPhone
	}
	if !ValidateRequired(data.FirstName) {
		errs[FieldFirstName] = MessageFirstNameRequired
	}
	if !ValidateRequired(data.LastName) {
		errs[FieldLastName] = MessageLastNameRequired
	}
	return errs
}
