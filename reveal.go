package main

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// revealKey derives the asset key for a lock vector. Each slot contributes
// its index, suffixed with "blur" while still hidden, matching the file
// names the image segmentation pipeline writes (e.g. "0_1blur_2blur.webp").
func revealKey(lockVector []bool, isVideo bool) string {
	parts := lo.Map(lockVector, func(locked bool, i int) string {
		if locked {
			return strconv.Itoa(i)
		}
		return strconv.Itoa(i) + "blur"
	})
	ext := ".webp"
	if isVideo {
		ext = ".mp4"
	}
	return strings.Join(parts, "_") + ext
}

// resolveRevealAsset maps a lock vector to the URL of the matching
// partially-obscured asset. A missing key falls back to the fully blurred
// asset, and failing that to the original image; resolution misses are
// absorbed here and never surface to the player.
func resolveRevealAsset(cfg *GameConfig, lockVector []bool) string {
	if len(cfg.AssetMap) == 0 {
		return cfg.OriginalAssetURL
	}
	if url, ok := cfg.AssetMap[revealKey(lockVector, cfg.IsVideo)]; ok {
		return url
	}
	allBlurred := make([]bool, len(lockVector))
	if url, ok := cfg.AssetMap[revealKey(allBlurred, cfg.IsVideo)]; ok {
		return url
	}
	return cfg.OriginalAssetURL
}
