package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify transliterates s to ASCII and joins words with single dashes.
func Slugify(s string) string {
	return slug.Make(strings.TrimSpace(s))
}

// NextSequence returns prefix followed by (highest numeric suffix among
// existing values sharing the prefix)+1, zero padded to width.
// NextSequence("INV-", 4, []string{"INV-0007"}) == "INV-0008".
func NextSequence(prefix string, width int, existing []string) string {
	highest := 0
	for _, v := range existing {
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(v, prefix)); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1)
}
