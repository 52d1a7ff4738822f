package core

import "maps"

var eventAliases = map[string]string{
	"name":       "title",
	"organisers": "organizer_name",
	"link":       "registration_url",
}

var legacyAliases = map[CollectionName]map[string]string{
	CollectionEvents:     eventAliases,
	CollectionHackathons: eventAliases,
}

// Canonicalize rewrites legacy column names to the canonical schema. A canonical
// value that is already present wins over its legacy alias.
func Canonicalize(collection CollectionName, record Record) Record {
	aliases, ok := legacyAliases[collection]
	if !ok || len(record) == 0 {
		return record
	}

	out := maps.Clone(record)

	for legacy, canonical := range aliases {
		value, found := out[legacy]
		if !found {
			continue
		}

		delete(out, legacy)

		if isBlank(out[canonical]) && !isBlank(value) {
			out[canonical] = value
		}
	}

	return out
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
