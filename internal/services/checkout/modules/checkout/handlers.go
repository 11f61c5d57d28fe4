package checkout

import (
	"errors"
	"log"
	"net/http"

	domain "github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	apperrors "github.com/louisbranch/credix-checkout/internal/services/checkout/platform/errors"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/pagerender"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/sessioncookie"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/weberror"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/routepath"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/templates"
	"github.com/louisbranch/credix-checkout/internal/services/shared/httpx"
)

type handlers struct {
	service service
	deps    module.Dependencies
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{service: s, deps: deps}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound)
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	current, _ := sessioncookie.Read(r)
	sessionID, machine, created := h.service.open(current)
	if created {
		sessioncookie.Write(w, r, sessionID, 0, h.deps.SchemePolicy)
	}
	view := machine.View()
	err := pagerender.WriteModulePage(w, r, h.deps, func(loc templates.Localizer) pagerender.ModulePage {
		return pagerender.ModulePage{
			Title:    templates.CheckoutPageTitle(loc),
			Fragment: templates.CheckoutPage(view, loc),
		}
	})
	if err != nil {
		log.Printf("checkout page render failed: err=%v", err)
	}
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessioncookie.Read(r)
	machine, err := h.service.lookup(sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.form_parse", "parse checkout form"))
		return
	}
	err = h.service.submit(r.Context(), machine, r.PostForm)
	if errors.Is(err, domain.ErrInvalidForm) {
		// Field messages render inline on the next page load.
		h.redirectToCheckout(w, r)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.redirectToCheckout(w, r)
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessioncookie.Read(r)
	machine, err := h.service.lookup(sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.edit(machine); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.redirectToCheckout(w, r)
}

func (h handlers) handleSelectTerm(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessioncookie.Read(r)
	machine, err := h.service.lookup(sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.selectTerm(machine, r.PathValue("term")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.redirectToCheckout(w, r)
}

func (h handlers) handleConfirm(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessioncookie.Read(r)
	machine, err := h.service.lookup(sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orderID, err := h.service.confirm(r.Context(), sessionID, machine)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sessioncookie.Clear(w, r, h.deps.SchemePolicy)
	httpx.WriteRedirect(w, r, routepath.Success(string(orderID)))
}

func (h handlers) redirectToCheckout(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.Checkout)
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, h.deps, routepath.Checkout, err)
}
