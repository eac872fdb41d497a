package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// GeohashPrecision is the precision used for coarse region tagging of
// vehicle locations (~150m cells)
const GeohashPrecision = 7

// EncodeLocation converts a location to a geohash string
func EncodeLocation(location models.Location) string {
	return geohash.EncodeWithPrecision(location.Latitude, location.Longitude, GeohashPrecision)
}

// DecodeGeohash converts a geohash string back to coordinates
func DecodeGeohash(hash string) models.Location {
	lat, lng := geohash.Decode(hash)
	return models.Location{Latitude: lat, Longitude: lng}
}

// CalculateDistanceKm calculates the distance between two points in
// kilometers using the Haversine formula
func CalculateDistanceKm(a, b models.Location) float64 {
	// Earth's radius in kilometers
	const earthRadius = 6371.0

	lat1 := a.Latitude * math.Pi / 180.0
	lon1 := a.Longitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	lon2 := b.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
