package correlation

import (
	"strings"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

// Each vocabulary is an alias table: a value matches a lowercased query when
// any of its terms is a substring of it. Table order is output order.

type sectorAlias struct {
	sector volume.Sector
	terms  []string
}

var sectorTable = []sectorAlias{
	{volume.SectorRubberGloves, []string{"rubber gloves", "rubber"}},
	{volume.SectorOleochemical, []string{"oleochemical"}},
	{volume.SectorConsumerProducts, []string{"consumer products", "consumer"}},
	{volume.SectorManufacturing, []string{"manufacturing"}},
	{volume.SectorFoodBeverage, []string{"food & beverage"}},
	{volume.SectorPharmaceuticals, []string{"pharmaceuticals"}},
}

type areaAlias struct {
	area  volume.Area
	terms []string
}

var areaTable = []areaAlias{
	{volume.AreaPRK, []string{"perak", "prk"}},
	{volume.AreaPKP, []string{"penang", "pkp"}},
	{volume.AreaSWP, []string{"selangor", "swp"}},
	{volume.AreaJHR, []string{"johor", "jhr"}},
	{volume.AreaMNS, []string{"melaka", "mns"}},
	{volume.AreaPTK, []string{"pahang", "ptk"}},
}

// Country is a trade partner recognized in policy questions
type Country string

const (
	CountryUS        Country = "us"
	CountryMalaysia  Country = "malaysia"
	CountryChina     Country = "china"
	CountryIndia     Country = "india"
	CountryThailand  Country = "thailand"
	CountryIndonesia Country = "indonesia"
)

type countryAlias struct {
	country Country
	terms   []string
}

var countryTable = []countryAlias{
	{CountryUS, []string{"us", "usa", "united states", "america", "american"}},
	{CountryMalaysia, []string{"malaysia", "malaysian"}},
	{CountryChina, []string{"china", "chinese"}},
	{CountryIndia, []string{"india", "indian"}},
	{CountryThailand, []string{"thailand", "thai"}},
	{CountryIndonesia, []string{"indonesia", "indonesian"}},
}

// PolicyTerm is a trade-policy keyword
type PolicyTerm string

var PolicyTerms = []PolicyTerm{
	"tariff", "tariffs",
	"policy", "policies",
	"regulation", "regulations",
	"tax", "taxes",
	"sanction", "sanctions",
	"subsidy", "subsidies",
}

// keyTerms mark a sentence as a key point
var keyTerms = []string{
	"increase", "decrease", "growth", "decline",
	"expansion", "investment", "production", "capacity",
	"demand", "supply", "price", "cost",
	"margin", "profit", "revenue", "forecast",
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// MatchSectors returns sectors whose aliases occur in text
func MatchSectors(text string) []volume.Sector {
	lower := strings.ToLower(text)
	out := []volume.Sector{}
	for _, entry := range sectorTable {
		if containsAny(lower, entry.terms) {
			out = append(out, entry.sector)
		}
	}
	return out
}

// MatchAreas returns area codes whose place names or codes occur in text
func MatchAreas(text string) []volume.Area {
	lower := strings.ToLower(text)
	out := []volume.Area{}
	for _, entry := range areaTable {
		if containsAny(lower, entry.terms) {
			out = append(out, entry.area)
		}
	}
	return out
}

// MatchCountries returns countries with an alias occurring in text
func MatchCountries(text string) []Country {
	lower := strings.ToLower(text)
	out := []Country{}
	for _, entry := range countryTable {
		if containsAny(lower, entry.terms) {
			out = append(out, entry.country)
		}
	}
	return out
}

// MatchPolicyTerms returns policy keywords occurring in text
func MatchPolicyTerms(text string) []PolicyTerm {
	lower := strings.ToLower(text)
	out := []PolicyTerm{}
	for _, term := range PolicyTerms {
		if strings.Contains(lower, string(term)) {
			out = append(out, term)
		}
	}
	return out
}
