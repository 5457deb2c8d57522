// Package loader registers API features and loads their routes.
//
// Each feature implements Feature. The Manager loads enabled features in
// registration order:
//
//	mgr := loader.NewManager()
//	mgr.Register(catalog.NewFeature(svc, cfg.Server.Language))
//	mgr.Register(mirror.NewFeature(mirrorSvc))
//	if err := mgr.LoadAll(app); err != nil {
//	    logg.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
