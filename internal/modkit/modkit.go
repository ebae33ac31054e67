// Package modkit builds API modules: options resolve into a Base that knows how to mount itself,
// and Deps carries the shared backends
package modkit

import (
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/module"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/repokit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"
)

// Module is the contract api.Mount wires
type Module = module.Module

// Deps are the shared backends handed to every module
// CH is nil when the clickhouse mirror is off
type Deps struct {
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
