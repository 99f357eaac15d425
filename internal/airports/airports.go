// Package airports resolves IATA airport codes to map coordinates for the
// dashboard's route panel. The table covers the domestic network the watcher
// is typically pointed at; unknown codes are not an error, the route panel
// simply renders without coordinates.
package airports

import "strings"

// Airport is a waypoint on the dashboard's route panel.
type Airport struct {
	Code string
	City string
	Lat  float64
	Lon  float64
}

var byCode = map[string]Airport{
	"ABQ": {Code: "ABQ", City: "Albuquerque", Lat: 35.0402, Lon: -106.6092},
	"ALB": {Code: "ALB", City: "Albany", Lat: 42.7483, Lon: -73.8017},
	"ATL": {Code: "ATL", City: "Atlanta", Lat: 33.6367, Lon: -84.4281},
	"AUS": {Code: "AUS", City: "Austin", Lat: 30.1945, Lon: -97.6699},
	"BNA": {Code: "BNA", City: "Nashville", Lat: 36.1245, Lon: -86.6782},
	"BOS": {Code: "BOS", City: "Boston", Lat: 42.3643, Lon: -71.0052},
	"BUF": {Code: "BUF", City: "Buffalo", Lat: 42.9405, Lon: -78.7322},
	"BUR": {Code: "BUR", City: "Burbank", Lat: 34.2007, Lon: -118.3587},
	"BWI": {Code: "BWI", City: "Baltimore", Lat: 39.1754, Lon: -76.6683},
	"CLE": {Code: "CLE", City: "Cleveland", Lat: 41.4117, Lon: -81.8498},
	"CMH": {Code: "CMH", City: "Columbus", Lat: 39.9980, Lon: -82.8919},
	"DAL": {Code: "DAL", City: "Dallas", Lat: 32.8471, Lon: -96.8518},
	"DCA": {Code: "DCA", City: "Washington", Lat: 38.8521, Lon: -77.0377},
	"DEN": {Code: "DEN", City: "Denver", Lat: 39.8617, Lon: -104.6731},
	"DTW": {Code: "DTW", City: "Detroit", Lat: 42.2124, Lon: -83.3534},
	"ELP": {Code: "ELP", City: "El Paso", Lat: 31.8072, Lon: -106.3776},
	"FLL": {Code: "FLL", City: "Fort Lauderdale", Lat: 26.0726, Lon: -80.1527},
	"HOU": {Code: "HOU", City: "Houston", Lat: 29.6454, Lon: -95.2789},
	"IND": {Code: "IND", City: "Indianapolis", Lat: 39.7173, Lon: -86.2944},
	"JAX": {Code: "JAX", City: "Jacksonville", Lat: 30.4941, Lon: -81.6879},
	"LAS": {Code: "LAS", City: "Las Vegas", Lat: 36.0801, Lon: -115.1522},
	"LAX": {Code: "LAX", City: "Los Angeles", Lat: 33.9425, Lon: -118.4081},
	"LGA": {Code: "LGA", City: "New York", Lat: 40.7772, Lon: -73.8726},
	"MCI": {Code: "MCI", City: "Kansas City", Lat: 39.2976, Lon: -94.7139},
	"MCO": {Code: "MCO", City: "Orlando", Lat: 28.4294, Lon: -81.3090},
	"MDW": {Code: "MDW", City: "Chicago", Lat: 41.7860, Lon: -87.7524},
	"MEM": {Code: "MEM", City: "Memphis", Lat: 35.0424, Lon: -89.9767},
	"MIA": {Code: "MIA", City: "Miami", Lat: 25.7932, Lon: -80.2906},
	"MKE": {Code: "MKE", City: "Milwaukee", Lat: 42.9472, Lon: -87.8966},
	"MSP": {Code: "MSP", City: "Minneapolis", Lat: 44.8820, Lon: -93.2218},
	"MSY": {Code: "MSY", City: "New Orleans", Lat: 29.9934, Lon: -90.2581},
	"OAK": {Code: "OAK", City: "Oakland", Lat: 37.7213, Lon: -122.2207},
	"OKC": {Code: "OKC", City: "Oklahoma City", Lat: 35.3931, Lon: -97.6007},
	"OMA": {Code: "OMA", City: "Omaha", Lat: 41.3032, Lon: -95.8941},
	"ONT": {Code: "ONT", City: "Ontario", Lat: 34.0560, Lon: -117.6012},
	"PDX": {Code: "PDX", City: "Portland", Lat: 45.5887, Lon: -122.5975},
	"PHL": {Code: "PHL", City: "Philadelphia", Lat: 39.8719, Lon: -75.2411},
	"PHX": {Code: "PHX", City: "Phoenix", Lat: 33.4343, Lon: -112.0116},
	"PIT": {Code: "PIT", City: "Pittsburgh", Lat: 40.4915, Lon: -80.2329},
	"RDU": {Code: "RDU", City: "Raleigh-Durham", Lat: 35.8776, Lon: -78.7875},
	"RNO": {Code: "RNO", City: "Reno", Lat: 39.4991, Lon: -119.7681},
	"SAN": {Code: "SAN", City: "San Diego", Lat: 32.7336, Lon: -117.1897},
	"SAT": {Code: "SAT", City: "San Antonio", Lat: 29.5337, Lon: -98.4698},
	"SEA": {Code: "SEA", City: "Seattle", Lat: 47.4490, Lon: -122.3093},
	"SFO": {Code: "SFO", City: "San Francisco", Lat: 37.6190, Lon: -122.3749},
	"SJC": {Code: "SJC", City: "San Jose", Lat: 37.3626, Lon: -121.9291},
	"SLC": {Code: "SLC", City: "Salt Lake City", Lat: 40.7884, Lon: -111.9778},
	"SMF": {Code: "SMF", City: "Sacramento", Lat: 38.6954, Lon: -121.5908},
	"STL": {Code: "STL", City: "St. Louis", Lat: 38.7487, Lon: -90.3700},
	"TPA": {Code: "TPA", City: "Tampa", Lat: 27.9755, Lon: -82.5332},
	"TUS": {Code: "TUS", City: "Tucson", Lat: 32.1161, Lon: -110.9410},
}

// Lookup resolves an IATA code to its coordinates. Codes are matched
// case-insensitively. Unknown codes return a waypoint carrying only the code.
func Lookup(code string) (Airport, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if ap, ok := byCode[normalized]; ok {
		return ap, true
	}
	return Airport{Code: normalized}, false
}
