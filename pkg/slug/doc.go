// Package slug builds URL segments from display names.
//
// Tours are addressed by slug in page URLs; the slug is derived from the tour
// name when a tour is saved and by the backfill-slugs command for older
// records:
//
//	slug.Make("The Forest Hiker")        // "the-forest-hiker"
//	slug.Make("Café & Crêpes")           // "cafe-and-crepes"
//	slug.Make("The Sea Explorer", slug.MaxLength(7)) // "the-sea"
//
// Diacritics are folded with golang.org/x/text normalization.
package slug
