// Package slug turns titles into URL-safe identifiers.
//
//	slug.Make("Cơ bida Mit M1 – Chính hãng")          // "co-bida-mit-m1-chinh-hang"
//	slug.Make("Bàn bi-a Aileex", slug.WithSuffix(6))  // "ban-bi-a-aileex-x7g3k2"
//
// Diacritics are removed through Unicode decomposition (golang.org/x/text),
// which covers Vietnamese tone marks; đ maps to d.
package slug
