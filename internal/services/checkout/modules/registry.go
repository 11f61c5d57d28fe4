// Package modules lists the checkout feature modules.
package modules

import (
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/modules/checkout"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/modules/public"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/modules/success"
)

// Default returns the modules mounted by the checkout service.
func Default() []module.Module {
	return []module.Module{
		public.New(),
		checkout.New(),
		success.New(),
	}
}
