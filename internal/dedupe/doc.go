// Package dedupe provides content deduplication for uploads using a
// time-based cache, so identical bytes uploaded within a configurable
// window share one stored file.
package dedupe
