package correlation

import (
	"slices"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

// Intent holds the filters recognized in a free-text question
type Intent struct {
	Sectors     []volume.Sector `json:"sectors"`
	Areas       []volume.Area   `json:"areas"`
	PolicyTerms []PolicyTerm    `json:"policyTerms"`
	Countries   []Country       `json:"countries"`
}

// ExtractIntent parses query against the fixed vocabularies.
// Unmatched queries yield empty, non-nil slices.
func ExtractIntent(query string) Intent {
	return Intent{
		Sectors:     MatchSectors(query),
		Areas:       MatchAreas(query),
		PolicyTerms: MatchPolicyTerms(query),
		Countries:   MatchCountries(query),
	}
}

func (i Intent) HasSector(s volume.Sector) bool { return slices.Contains(i.Sectors, s) }

func (i Intent) HasArea(a volume.Area) bool { return slices.Contains(i.Areas, a) }

func (i Intent) HasCountry(c Country) bool { return slices.Contains(i.Countries, c) }

// IsFiltered reports whether the query narrows volume data at all
func (i Intent) IsFiltered() bool {
	return len(i.Sectors) > 0 || len(i.Areas) > 0
}

// FilterRecords keeps records belonging to customers that match the intent's
// sectors and areas. With no sector or area filter every record is kept.
func FilterRecords(records []volume.Record, customers []volume.Customer, intent Intent) []volume.Record {
	if !intent.IsFiltered() {
		return records
	}

	ids := make(map[int64]struct{})
	for _, c := range customers {
		if len(intent.Sectors) > 0 && !intent.HasSector(c.Sector) {
			continue
		}
		if len(intent.Areas) > 0 && !intent.HasArea(c.Area) {
			continue
		}
		ids[c.ID] = struct{}{}
	}

	out := make([]volume.Record, 0, len(records))
	for _, r := range records {
		if _, ok := ids[r.CustomerID]; ok {
			out = append(out, r)
		}
	}
	return out
}
