package checkout

import (
	"context"
	"strconv"
	"sync"

	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
)

// State is the checkout workflow position.
type State int

const (
	// StateEditing accepts field edits and submission.
	StateEditing State = iota
	// StateQuoted shows the offered terms with the form locked.
	StateQuoted
)

// String returns a stable label for logs.
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateQuoted:
		return "quoted"
	default:
		return "unknown"
	}
}

// OrderID identifies a confirmed order at the pricing API.
type OrderID string

// Gateway performs the two remote exchanges of the checkout.
type Gateway interface {
	// RequestTerms returns the term offers for the buyer and cart in data.
	RequestTerms(ctx context.Context, data FormData) ([]Term, error)
	// ConfirmOrder creates the order described by data, including data.Term.
	ConfirmOrder(ctx context.Context, data FormData) (OrderID, error)
}

// Snapshot is a read-only copy of machine state for rendering.
type Snapshot struct {
	State      State
	Data       FormData
	Errors     FormErrors
	Terms      []Term
	ActiveTerm Term
	InFlight   bool
	Cart       []CartItem
	Summary    Summary
}

// Locked reports whether the form fields are read-only.
func (s Snapshot) Locked() bool {
	return s.State == StateQuoted
}

// CanConfirm reports whether the confirm action is enabled.
func (s Snapshot) CanConfirm() bool {
	return s.State == StateQuoted && s.ActiveTerm != NoTerm && !s.InFlight
}

// Machine owns one buyer's checkout form. It is safe for concurrent use.
type Machine struct {
	mu       sync.Mutex
	cart     Cart
	state    State
	data     FormData
	errors   FormErrors
	terms    []Term
	active   Term
	inFlight bool
}

// NewMachine returns a machine in StateEditing over cart.
func NewMachine(cart Cart) *Machine {
	return &Machine{
		cart:   cart,
		state:  StateEditing,
		errors: FormErrors{},
	}
}

// View returns a copy of the current state.
func (m *Machine) View() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	terms := make([]Term, len(m.terms))
	copy(terms, m.terms)
	data := m.data
	data.Cart = nil
	return Snapshot{
		State:      m.state,
		Data:       data,
		Errors:     m.errors.clone(),
		Terms:      terms,
		ActiveTerm: m.active,
		InFlight:   m.inFlight,
		Cart:       m.cart.Snapshot(),
		Summary:    m.cart.Summary(),
	}
}

// UpdateField sets field to value and clears its validation error. Edits are
// rejected with ErrFormLocked while quoted.
func (m *Machine) UpdateField(field Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return ErrRequestInFlight
	}
	if m.state != StateEditing {
		return ErrFormLocked
	}
	if !m.data.set(field, value) {
		return ErrUnknownField
	}
	delete(m.errors, field)
	return nil
}

// Submit validates the form and, when valid, requests terms through gw.
//
// Validation failures populate the form errors and return ErrInvalidForm
// without calling gw. A gateway failure leaves the machine editing with its
// errors untouched.
func (m *Machine) Submit(ctx context.Context, gw Gateway) error {
	payload, err := m.beginSubmit()
	if err != nil {
		return err
	}

	returned := false
	defer func() {
		if !returned {
			m.release()
		}
	}()
	terms, callErr := gw.RequestTerms(ctx, payload)
	returned = true

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if callErr != nil {
		return callErr
	}
	terms = offeredTerms(terms)
	if len(terms) == 0 {
		return ErrNoTermsOffered
	}
	m.terms = terms
	m.active = NoTerm
	m.state = StateQuoted
	return nil
}

func (m *Machine) beginSubmit() (FormData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return FormData{}, ErrRequestInFlight
	}
	if m.state != StateEditing {
		return FormData{}, ErrFormLocked
	}
	if errs := Validate(m.data); len(errs) > 0 {
		m.errors = errs
		return FormData{}, ErrInvalidForm
	}
	payload := m.data
	payload.Term = NoTerm
	payload.Cart = m.cart.Snapshot()
	m.inFlight = true
	return payload, nil
}

// SelectTerm marks term as the active offer. The term must be one of the
// quoted terms.
func (m *Machine) SelectTerm(term Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return ErrRequestInFlight
	}
	if m.state != StateQuoted {
		return ErrNotQuoted
	}
	for _, offered := range m.terms {
		if offered == term {
			m.active = term
			return nil
		}
	}
	return apperrors.WithMetadata(apperrors.CodeCheckoutTermNotOffered, ErrTermNotOffered.Message, map[string]string{"Term": strconv.Itoa(int(term))})
}

// Edit returns to StateEditing, dropping the quote and the active term.
// Calling Edit while editing is a no-op.
func (m *Machine) Edit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return ErrRequestInFlight
	}
	if m.state == StateEditing {
		return nil
	}
	m.state = StateEditing
	m.terms = nil
	m.active = NoTerm
	return nil
}

// ConfirmOrder submits the order for the active term through gw and returns
// the created order id. The machine state is unchanged on failure.
func (m *Machine) ConfirmOrder(ctx context.Context, gw Gateway) (OrderID, error) {
	payload, err := m.beginConfirm()
	if err != nil {
		return "", err
	}

	returned := false
	defer func() {
		if !returned {
			m.release()
		}
	}()
	orderID, callErr := gw.ConfirmOrder(ctx, payload)
	returned = true

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if callErr != nil {
		return "", callErr
	}
	return orderID, nil
}

func (m *Machine) beginConfirm() (FormData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return FormData{}, ErrRequestInFlight
	}
	if m.state != StateQuoted {
		return FormData{}, ErrNotQuoted
	}
	if m.active == NoTerm {
		return FormData{}, ErrNoTermSelected
	}
	payload := m.data
	payload.Term = m.active
	payload.Cart = m.cart.Snapshot()
	m.inFlight = true
	return payload, nil
}

// release clears the in-flight flag after a gateway call panics.
func (m *Machine) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
}

// offeredTerms drops sentinel, negative and repeated terms, keeping order.
func offeredTerms(terms []Term) []Term {
	out := make([]Term, 0, len(terms))
	seen := make(map[Term]struct{}, len(terms))
	for _, term := range terms {
		if term <= NoTerm {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
