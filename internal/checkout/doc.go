// Package checkout holds the checkout form domain: field validators, the
// read-only cart model, and the state machine that drives the
// quote, select term, confirm workflow.
//
// # States
//
// A Machine starts in StateEditing with the form unlocked. A successful quote
// moves it to StateQuoted, where the form is locked and the buyer picks one of
// the offered terms. Edit returns to StateEditing and forgets the quote.
// Confirmation has no state of its own: the caller receives the order id and
// navigates away.
//
// # Remote calls
//
// Submit and ConfirmOrder talk to a Gateway. While a call is outstanding the
// machine rejects every other mutation with ErrRequestInFlight, and the call
// itself runs outside the machine lock so readers never wait on the network.
package checkout
