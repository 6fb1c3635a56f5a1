package rules

// CatalogOptions extends the built-in package lists without touching
// detection logic.
type CatalogOptions struct {
	BarrelPackages []string
	HeavyPackages  []string
}

// BuiltinRegistry populates a registry with the full rule catalog.
// Registration order is part of the output contract: it is the
// tie-break applied within each unit, so rules are added in a fixed
// category order.
func BuiltinRegistry(opts CatalogOptions) *Registry {
	reg := NewRegistry()
	for _, rule := range []Rule{
		// bundle-size
		NewBarrelImportsRule(opts.BarrelPackages...),
		NewDynamicImportsRule(opts.HeavyPackages...),
		NewDeferThirdPartyRule(),
		NewNamespaceImportRule(opts.BarrelPackages...),
		// waterfalls
		NewParallelAwaitRule(),
		NewAwaitInLoopRule(),
		NewFetchInEffectRule(),
		// server-perf
		NewSyncIORule(),
		NewForceDynamicRule(),
		NewFetchNoStoreRule(),
		// rerender
		NewNestedComponentRule(),
		NewDerivedStateEffectRule(),
		NewFunctionalSetStateRule(),
		NewLazyStateInitRule(),
		NewContextLiteralRule(),
		// rendering-perf
		NewImgElementRule(),
		NewHydrationFlagRule(),
		NewIndexKeyRule(),
		// js-perf
		NewSpreadAccumulatorRule(),
		NewJSONCloneRule(),
		NewCombineIterationsRule(),
		NewMathMaxSpreadRule(),
		NewConsoleLogRule(),
		// advanced-patterns
		NewPointerEventsStateRule(),
		NewListenerCleanupRule(),
		NewPassiveListenersRule(),
	} {
		mustRegister(reg, rule)
	}
	return reg
}

// DefaultRegistry is the catalog with stock package lists.
func DefaultRegistry() *Registry {
	return BuiltinRegistry(CatalogOptions{})
}

func mustRegister(reg *Registry, rule Rule) {
	if err := reg.Register(rule); err != nil {
		panic(err)
	}
}
