package domain

// malaysianStates maps the numeric state codes used by the MyInvois export
// sheets to state names. Code 17 is the "not applicable" slot used by foreign
// parties.
var malaysianStates = map[string]string{
	"1":  "Johor",
	"2":  "Kedah",
	"3":  "Kelantan",
	"4":  "Melaka",
	"5":  "Negeri Sembilan",
	"6":  "Pahang",
	"7":  "Pulau Pinang",
	"8":  "Perak",
	"9":  "Perlis",
	"10": "Sabah",
	"11": "Sarawak",
	"12": "Selangor",
	"13": "Terengganu",
	"14": "Wilayah Persekutuan Kuala Lumpur",
	"15": "Wilayah Persekutuan Labuan",
	"16": "Wilayah Persekutuan Putrajaya",
	"17": "Not Applicable",
}

// ResolveStateCode maps a numeric Malaysian state code to its name.
// Unrecognized or non-numeric values pass through verbatim, because older
// exports already carried state names instead of codes.
func ResolveStateCode(code string) string {
	if name, ok := malaysianStates[code]; ok {
		return name
	}
	return code
}
