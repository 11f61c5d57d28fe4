package templates

import (
	"github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/shopspring/decimal"
)

var fieldLabelKeys = map[checkout.Field]string{
	checkout.FieldCNPJ:      "checkout.field.cnpj",
	checkout.FieldEmail:     "checkout.field.email",
	checkout.FieldPhone:     "checkout.field.phone",
	checkout.FieldFirstName: "checkout.field.first_name",
	checkout.FieldLastName:  "checkout.field.last_name",
}

var fieldInputTypes = map[checkout.Field]string{
	checkout.FieldEmail: "email",
	checkout.FieldPhone: "tel",
}

// CheckoutPageTitle returns the browser title of the checkout page.
func CheckoutPageTitle(loc Localizer) string {
	return T(loc, "checkout.title")
}

func fieldInputType(field checkout.Field) string {
	if inputType := fieldInputTypes[field]; inputType != "" {
		return inputType
	}
	return "text"
}

func ariaInvalid(view checkout.Snapshot, field checkout.Field) string {
	if _, ok := view.Errors[field]; ok {
		return "true"
	}
	return "false"
}

func termActionKey(active bool) string {
	if active {
		return "checkout.action.selected"
	}
	return "checkout.action.select"
}

// FormatMoney renders amount in reais without trailing zeros.
func FormatMoney(amount decimal.Decimal) string {
	return "R$" + amount.String()
}
