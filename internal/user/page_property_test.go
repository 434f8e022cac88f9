package user

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPageRequestNormalizeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		page := rapid.IntRange(1, 1_000_000).Draw(t, "page")
		perPage := rapid.IntRange(1, 1_000_000).Draw(t, "perPage")

		got, err := PageRequest{Page: page, PerPage: perPage}.Normalize()
		if err != nil {
			t.Fatalf("positive parameters must normalize: %v", err)
		}

		if got.Page != page {
			t.Errorf("page changed by Normalize: %d -> %d", page, got.Page)
		}
		if got.PerPage > MaxPerPage {
			t.Errorf("per_page %d exceeds maximum %d after Normalize", got.PerPage, MaxPerPage)
		}
		if perPage <= MaxPerPage && got.PerPage != perPage {
			t.Errorf("per_page %d within bounds was altered to %d", perPage, got.PerPage)
		}
		if perPage > MaxPerPage && got.PerPage != MaxPerPage {
			t.Errorf("per_page %d must clamp to %d, got %d", perPage, MaxPerPage, got.PerPage)
		}
	})
}

func TestPageRequestNormalizeRejectsNonPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		page := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "page")
		perPage := rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "perPage")
		if page >= 1 && perPage >= 1 {
			t.Skip("both positive")
		}

		_, err := PageRequest{Page: page, PerPage: perPage}.Normalize()
		if err == nil {
			t.Fatalf("page=%d per_page=%d must be rejected", page, perPage)
		}
		if !IsValidation(err) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})
}

func TestPageRequestOffsetProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		page := rapid.IntRange(1, 10_000).Draw(t, "page")
		perPage := rapid.IntRange(1, MaxPerPage).Draw(t, "perPage")

		req, err := PageRequest{Page: page, PerPage: perPage}.Normalize()
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}

		offset := req.Offset()
		if offset != (page-1)*perPage {
			t.Errorf("offset = %d, want %d", offset, (page-1)*perPage)
		}
		if page > 1 {
			prev := PageRequest{Page: page - 1, PerPage: perPage}.Offset()
			if offset-prev != perPage {
				t.Errorf("consecutive pages must be %d rows apart, got %d", perPage, offset-prev)
			}
		}
	})
}
