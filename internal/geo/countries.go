package geo

// isoCountry is one row of the built-in ISO 3166-1 table.
type isoCountry struct {
	alpha2 string
	alpha3 string
	name   string
}

// isoCountries is the built-in ISO 3166-1 table used for alpha-3 and
// free-text name resolution. Display names are the common English names
// the discovery UI shows on the map.
//
//nolint:gochecknoglobals // Static lookup table for country normalization
var isoCountries = []isoCountry{
	{"AD", "AND", "Andorra"}, {"AE", "ARE", "United Arab Emirates"}, {"AF", "AFG", "Afghanistan"},
	{"AG", "ATG", "Antigua and Barbuda"}, {"AL", "ALB", "Albania"}, {"AM", "ARM", "Armenia"},
	{"AO", "AGO", "Angola"}, {"AR", "ARG", "Argentina"}, {"AT", "AUT", "Austria"},
	{"AU", "AUS", "Australia"}, {"AZ", "AZE", "Azerbaijan"}, {"BA", "BIH", "Bosnia and Herzegovina"},
	{"BB", "BRB", "Barbados"}, {"BD", "BGD", "Bangladesh"}, {"BE", "BEL", "Belgium"},
	{"BF", "BFA", "Burkina Faso"}, {"BG", "BGR", "Bulgaria"}, {"BH", "BHR", "Bahrain"},
	{"BI", "BDI", "Burundi"}, {"BJ", "BEN", "Benin"}, {"BN", "BRN", "Brunei"},
	{"BO", "BOL", "Bolivia"}, {"BR", "BRA", "Brazil"}, {"BS", "BHS", "Bahamas"},
	{"BT", "BTN", "Bhutan"}, {"BW", "BWA", "Botswana"}, {"BY", "BLR", "Belarus"},
	{"BZ", "BLZ", "Belize"}, {"CA", "CAN", "Canada"}, {"CD", "COD", "Democratic Republic of the Congo"},
	{"CF", "CAF", "Central African Republic"}, {"CG", "COG", "Congo"}, {"CH", "CHE", "Switzerland"},
	{"CI", "CIV", "Ivory Coast"}, {"CL", "CHL", "Chile"}, {"CM", "CMR", "Cameroon"},
	{"CN", "CHN", "China"}, {"CO", "COL", "Colombia"}, {"CR", "CRI", "Costa Rica"},
	{"CU", "CUB", "Cuba"}, {"CV", "CPV", "Cabo Verde"}, {"CY", "CYP", "Cyprus"},
	{"CZ", "CZE", "Czechia"}, {"DE", "DEU", "Germany"}, {"DJ", "DJI", "Djibouti"},
	{"DK", "DNK", "Denmark"}, {"DM", "DMA", "Dominica"}, {"DO", "DOM", "Dominican Republic"},
	{"DZ", "DZA", "Algeria"}, {"EC", "ECU", "Ecuador"}, {"EE", "EST", "Estonia"},
	{"EG", "EGY", "Egypt"}, {"ER", "ERI", "Eritrea"}, {"ES", "ESP", "Spain"},
	{"ET", "ETH", "Ethiopia"}, {"FI", "FIN", "Finland"}, {"FJ", "FJI", "Fiji"},
	{"FM", "FSM", "Micronesia"}, {"FR", "FRA", "France"}, {"GA", "GAB", "Gabon"},
	{"GB", "GBR", "United Kingdom"}, {"GD", "GRD", "Grenada"}, {"GE", "GEO", "Georgia"},
	{"GH", "GHA", "Ghana"}, {"GL", "GRL", "Greenland"}, {"GM", "GMB", "Gambia"},
	{"GN", "GIN", "Guinea"}, {"GQ", "GNQ", "Equatorial Guinea"}, {"GR", "GRC", "Greece"},
	{"GT", "GTM", "Guatemala"}, {"GW", "GNB", "Guinea-Bissau"}, {"GY", "GUY", "Guyana"},
	{"HK", "HKG", "Hong Kong"}, {"HN", "HND", "Honduras"}, {"HR", "HRV", "Croatia"},
	{"HT", "HTI", "Haiti"}, {"HU", "HUN", "Hungary"}, {"ID", "IDN", "Indonesia"},
	{"IE", "IRL", "Ireland"}, {"IL", "ISR", "Israel"}, {"IN", "IND", "India"},
	{"IQ", "IRQ", "Iraq"}, {"IR", "IRN", "Iran"}, {"IS", "ISL", "Iceland"},
	{"IT", "ITA", "Italy"}, {"JM", "JAM", "Jamaica"}, {"JO", "JOR", "Jordan"},
	{"JP", "JPN", "Japan"}, {"KE", "KEN", "Kenya"}, {"KG", "KGZ", "Kyrgyzstan"},
	{"KH", "KHM", "Cambodia"}, {"KI", "KIR", "Kiribati"}, {"KM", "COM", "Comoros"},
	{"KN", "KNA", "Saint Kitts and Nevis"}, {"KP", "PRK", "North Korea"}, {"KR", "KOR", "South Korea"},
	{"KW", "KWT", "Kuwait"}, {"KZ", "KAZ", "Kazakhstan"}, {"LA", "LAO", "Laos"},
	{"LB", "LBN", "Lebanon"}, {"LC", "LCA", "Saint Lucia"}, {"LI", "LIE", "Liechtenstein"},
	{"LK", "LKA", "Sri Lanka"}, {"LR", "LBR", "Liberia"}, {"LS", "LSO", "Lesotho"},
	{"LT", "LTU", "Lithuania"}, {"LU", "LUX", "Luxembourg"}, {"LV", "LVA", "Latvia"},
	{"LY", "LBY", "Libya"}, {"MA", "MAR", "Morocco"}, {"MC", "MCO", "Monaco"},
	{"MD", "MDA", "Moldova"}, {"ME", "MNE", "Montenegro"}, {"MG", "MDG", "Madagascar"},
	{"MH", "MHL", "Marshall Islands"}, {"MK", "MKD", "North Macedonia"}, {"ML", "MLI", "Mali"},
	{"MM", "MMR", "Myanmar"}, {"MN", "MNG", "Mongolia"}, {"MR", "MRT", "Mauritania"},
	{"MT", "MLT", "Malta"}, {"MU", "MUS", "Mauritius"}, {"MV", "MDV", "Maldives"},
	{"MW", "MWI", "Malawi"}, {"MX", "MEX", "Mexico"}, {"MY", "MYS", "Malaysia"},
	{"MZ", "MOZ", "Mozambique"}, {"NA", "NAM", "Namibia"}, {"NE", "NER", "Niger"},
	{"NG", "NGA", "Nigeria"}, {"NI", "NIC", "Nicaragua"}, {"NL", "NLD", "Netherlands"},
	{"NO", "NOR", "Norway"}, {"NP", "NPL", "Nepal"}, {"NR", "NRU", "Nauru"},
	{"NZ", "NZL", "New Zealand"}, {"OM", "OMN", "Oman"}, {"PA", "PAN", "Panama"},
	{"PE", "PER", "Peru"}, {"PG", "PNG", "Papua New Guinea"}, {"PH", "PHL", "Philippines"},
	{"PK", "PAK", "Pakistan"}, {"PL", "POL", "Poland"}, {"PR", "PRI", "Puerto Rico"},
	{"PS", "PSE", "Palestine"}, {"PT", "PRT", "Portugal"}, {"PW", "PLW", "Palau"},
	{"PY", "PRY", "Paraguay"}, {"QA", "QAT", "Qatar"}, {"RO", "ROU", "Romania"},
	{"RS", "SRB", "Serbia"}, {"RU", "RUS", "Russia"}, {"RW", "RWA", "Rwanda"},
	{"SA", "SAU", "Saudi Arabia"}, {"SB", "SLB", "Solomon Islands"}, {"SC", "SYC", "Seychelles"},
	{"SD", "SDN", "Sudan"}, {"SE", "SWE", "Sweden"}, {"SG", "SGP", "Singapore"},
	{"SI", "SVN", "Slovenia"}, {"SK", "SVK", "Slovakia"}, {"SL", "SLE", "Sierra Leone"},
	{"SM", "SMR", "San Marino"}, {"SN", "SEN", "Senegal"}, {"SO", "SOM", "Somalia"},
	{"SR", "SUR", "Suriname"}, {"SS", "SSD", "South Sudan"}, {"ST", "STP", "Sao Tome and Principe"},
	{"SV", "SLV", "El Salvador"}, {"SY", "SYR", "Syria"}, {"SZ", "SWZ", "Eswatini"},
	{"TD", "TCD", "Chad"}, {"TG", "TGO", "Togo"}, {"TH", "THA", "Thailand"},
	{"TJ", "TJK", "Tajikistan"}, {"TL", "TLS", "Timor-Leste"}, {"TM", "TKM", "Turkmenistan"},
	{"TN", "TUN", "Tunisia"}, {"TO", "TON", "Tonga"}, {"TR", "TUR", "Turkey"},
	{"TT", "TTO", "Trinidad and Tobago"}, {"TV", "TUV", "Tuvalu"}, {"TW", "TWN", "Taiwan"},
	{"TZ", "TZA", "Tanzania"}, {"UA", "UKR", "Ukraine"}, {"UG", "UGA", "Uganda"},
	{"US", "USA", "United States"}, {"UY", "URY", "Uruguay"}, {"UZ", "UZB", "Uzbekistan"},
	{"VA", "VAT", "Vatican City"}, {"VC", "VCT", "Saint Vincent and the Grenadines"},
	{"VE", "VEN", "Venezuela"}, {"VN", "VNM", "Vietnam"}, {"VU", "VUT", "Vanuatu"},
	{"WS", "WSM", "Samoa"}, {"YE", "YEM", "Yemen"}, {"ZA", "ZAF", "South Africa"},
	{"ZM", "ZMB", "Zambia"}, {"ZW", "ZWE", "Zimbabwe"},
}

// countryAliases maps common alternative names (lowercased) to alpha-2
// codes, for inputs the canonical name table misses.
//
//nolint:gochecknoglobals // Static lookup table for country normalization
var countryAliases = map[string]string{
	"usa": "US", "united states of america": "US", "america": "US", "u s a": "US",
	"uk": "GB", "great britain": "GB", "britain": "GB", "england": "GB", "scotland": "GB", "wales": "GB",
	"uae": "AE", "south korea": "KR", "korea": "KR", "republic of korea": "KR",
	"north korea": "KP", "dprk": "KP",
	"russian federation": "RU", "czech republic": "CZ", "cote d ivoire": "CI", "cote divoire": "CI",
	"burma": "MM", "swaziland": "SZ", "macedonia": "MK", "east timor": "TL",
	"cape verde": "CV", "holland": "NL", "the netherlands": "NL", "the gambia": "GM",
	"drc": "CD", "dr congo": "CD", "congo kinshasa": "CD", "congo brazzaville": "CG",
	"palestinian territories": "PS", "west bank": "PS", "viet nam": "VN",
	"bolivia plurinational state of": "BO", "venezuela bolivarian republic of": "VE",
	"iran islamic republic of": "IR", "syrian arab republic": "SY",
	"lao people s democratic republic": "LA", "tanzania united republic of": "TZ",
	"moldova republic of": "MD", "brunei darussalam": "BN",
}

// Lookup maps built once from the table above.
//
//nolint:gochecknoglobals
var (
	alpha3ToAlpha2 = make(map[string]string, len(isoCountries))
	nameToAlpha2   = make(map[string]string, len(isoCountries))
	alpha2ToName   = make(map[string]string, len(isoCountries))
)

func init() {
	for _, c := range isoCountries {
		alpha3ToAlpha2[c.alpha3] = c.alpha2
		nameToAlpha2[normalizeName(c.name)] = c.alpha2
		alpha2ToName[c.alpha2] = c.name
	}
}
