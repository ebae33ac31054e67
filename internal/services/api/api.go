// Package api assembles the deal flow HTTP surface from its modules
package api

import (
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
	phttp "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/net/http"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/store"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/httpkit"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/module"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/modkit/swaggerkit"

	metamod "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/api/meta/module"
	dealsmod "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// deals owns the triage config; meta reports it
	deals := dealsmod.New(deps)
	dp := module.MustPortsOf[dealsmod.Ports](deals)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Thesis: dp.Service})),
		deals,
	}

	r.Use(httpkit.RootStack()...)
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
