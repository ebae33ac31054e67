// Package module is the minimal module contract, split from modkit so port types can import it without cycles
package module

import (
	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
)

// Module mounts its routes and exposes ports to sibling modules
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	Ports() any
}
