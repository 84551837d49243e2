// Package ident allocates sequential record identifiers of the form <prefix><n>.
package ident

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/abgdnv/storefront/internal/errors"
)

// Next returns prefix followed by one more than the largest numeric suffix in ids,
// or prefix+"1" when ids is empty. Gaps left by deletions are not reused.
// An id that is not prefix followed by a decimal number yields ErrMalformedID, as does a
// suffix already at the uint64 maximum.
func Next(prefix string, ids []string) (string, error) {
	var highest uint64
	for _, id := range ids {
		n, err := Suffix(prefix, id)
		if err != nil {
			return "", err
		}
		highest = max(highest, n)
	}
	if highest == math.MaxUint64 {
		return "", fmt.Errorf("%w: %s%d leaves no next identifier", apperrors.ErrMalformedID, prefix, highest)
	}
	return prefix + strconv.FormatUint(highest+1, 10), nil
}

// Suffix parses the numeric part of id.
func Suffix(prefix, id string) (uint64, error) {
	digits, found := strings.CutPrefix(id, prefix)
	if !found || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q does not match %s<number>", apperrors.ErrMalformedID, id, prefix)
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", apperrors.ErrMalformedID, id, err)
	}
	return n, nil
}
