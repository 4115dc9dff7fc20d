// Package themeatlas manages the named colours and images that skin an
// application and packs the images into a single atlas.
//
// Resources are registered once, in a fixed order, on a Registry. Their
// indices are dense and stable, so callers keep indices rather than names.
// A Theme wraps the registry with the persisted caches of one or more
// named themes:
//
//	th := themeatlas.New(themeatlas.DefaultOptions(), func(r *themeatlas.Registry) {
//		clrAccent = r.RegisterColour(color.NRGBA{0x33, 0x66, 0xcc, 0xff}, "accent")
//		bmpPlay, _ = r.RegisterImageData(playPNG, "play", themeatlas.FlagNone)
//	})
//	if err := th.CreateImageCache(themeatlas.ThemeLight, true); err != nil {
//		return err
//	}
//	ok, err := th.LoadTheme(themeatlas.ThemeLight)
//
// CreateImageCache packs every image not flagged FlagInternal with a
// FlowPacker and writes the atlas together with a rectangle table keyed by
// resource name. ReadImageCache reverses this; resources the cache does not
// provide keep their compiled-in defaults, so every index always resolves
// to a usable image.
//
// RecolourTheme retints the images toward a palette of RecolourPairs while
// keeping their shading and alpha.
package themeatlas
