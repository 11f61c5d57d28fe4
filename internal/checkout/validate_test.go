package checkout

import "testing"

func TestValidateTaxID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "formatted", input: "12.345.678/0001-90", want: true},
		{name: "digits only", input: "12345678000190", want: true},
		{name: "thirteen digits", input: "1234567800019", want: false},
		{name: "fifteen digits", input: "123456780001901", want: false},
		{name: "letters ignored", input: "ab12345678000190", want: true},
		{name: "empty", input: "", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateTaxID(tc.input); got != tc.want {
				t.Fatalf("ValidateTaxID(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "a@b.co", want: true},
		{input: "buyer.name+tag@shop.example.com.br", want: true},
		{input: "a@b.c", want: false},
		{input: "a@b", want: false},
		{input: "@b.com", want: false},
		{input: "a b@c.com", want: false},
		{input: "", want: false},
	}
	for _, tc := range tests {
		if got := ValidateEmail(tc.input); got != tc.want {
			t.Fatalf("ValidateEmail(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "mobile nine digits", input: "+5511912345678", want: true},
		{name: "landline eight digits", input: "+551112345678", want: true},
		{name: "ten digits split 2+4+4 is a landline", input: "+551198765432", want: true},
		{name: "missing country code", input: "5511912345678", want: false},
		{name: "separators", input: "+55 11 91234-5678", want: false},
		{name: "other country prefix", input: "+15511912345678", want: false},
		{name: "too many digits", input: "+55119123456789", want: false},
		{name: "too few digits", input: "+55111234567", want: false},
	}
	for _, tc := range tests {
		if got := ValidatePhone(tc.input); got != tc.want {
			t.Fatalf("%s: ValidatePhone(%q) = %v, want %v", tc.name, tc.input, got, tc.want)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	t.Parallel()

	if ValidateRequired("   ") {
		t.Fatal("ValidateRequired(blank) = true, want false")
	}
	if ValidateRequired("") {
		t.Fatal("ValidateRequired(empty) = true, want false")
	}
	if !ValidateRequired(" Ana ") {
		t.Fatal("ValidateRequired(Ana) = false, want true")
	}
}

func TestDigitsOnly(t *testing.T) {
	t.Parallel()

	if got := DigitsOnly("12.345-6/x"); got != "123456" {
		t.Fatalf("DigitsOnly = %q, want %q", got, "123456")
	}
	if got := DigitsOnly("١٢٣"); got != "" {
		t.Fatalf("DigitsOnly(arabic-indic) = %q, want empty", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("all invalid", func(t *testing.T) {
		t.Parallel()
		errs := Validate(FormData{})
		want := FormErrors{
			FieldCNPJ:      MessageInvalidTaxID,
			FieldEmail:     MessageInvalidEmail,
			FieldPhone:     MessageInvalidPhone,
			FieldFirstName: MessageFirstNameRequired,
			FieldLastName:  MessageLastNameRequired,
		}
		if len(errs) != len(want) {
			t.Fatalf("len(errs) = %d, want %d", len(errs), len(want))
		}
		for field, message := range want {
			if errs[field] != message {
				t.Fatalf("errs[%s] = %q, want %q", field, errs[field], message)
			}
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		if errs := Validate(validForm()); len(errs) != 0 {
			t.Fatalf("Validate(valid) = %v, want empty", errs)
		}
	})
}

func TestParseField(t *testing.T) {
	t.Parallel()

	for _, field := range Fields() {
		got, ok := ParseField(" " + string(field) + " ")
		if !ok || got != field {
			t.Fatalf("ParseField(%q) = %q, %v", field, got, ok)
		}
	}
	if _, ok := ParseField("term"); ok {
		t.Fatal("ParseField(term) ok = true, want false")
	}
}
