package geo

import "math"

// EarthRadiusKm is the spherical Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// coordinates using the haversine formula. Out-of-range or NaN inputs
// propagate as NaN; callers treat NaN as infinitely far.
func Distance(latA, lonA, latB, lonB float64) float64 {
	lat1 := radians(latA)
	lat2 := radians(latB)
	dLat := radians(latB - latA)
	dLon := radians(lonB - lonA)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
