package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every module's HTTP handler so the
// application shell can mount it without knowing the module.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
