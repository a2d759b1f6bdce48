package utils

import (
	"strconv"
)

// ListCachePrefix namespaces every cached list response so a single prefix
// delete drops them all after a write.
const ListCachePrefix = "travellog:list:v1:"

// ListGenerationKey names the list generation counter. It must stay outside
// ListCachePrefix so a prefix delete never resets it.
const ListGenerationKey = "travellog:listgen:v1"

func BuildListCacheKey(gen int64, resource string, parent *int64, p Page) string {
	parentPart := ""
	if parent != nil {
		parentPart = strconv.FormatInt(*parent, 10)
	}

	return ListCachePrefix + "g" + strconv.FormatInt(gen, 10) + ":" + resource +
		":parent=" + parentPart +
		":page=" + strconv.Itoa(p.Number) +
		":size=" + strconv.Itoa(p.Size)
}
