package routing

import (
	"errors"
	"fmt"
	"journey-route-service/internal/domain"
)

const polylinePrecision = 1e5

var errTruncatedPolyline = errors.New("polyline: truncated input")

// DecodePolyline decodes a precision-5 encoded polyline into (lat, lng) points.
// An empty string decodes to an empty, non-nil slice.
func DecodePolyline(encoded string) ([]domain.LatLng, error) {
	points := make([]domain.LatLng, 0, len(encoded)/4)

	var lat, lng int64
	for i := 0; i < len(encoded); {
		dlat, next, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dlng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next

		lat += dlat
		lng += dlng
		points = append(points, domain.LatLng{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
	}

	return points, nil
}

// decodeValue reads one zigzag varint (5-bit chunks offset by 63) starting at i.
func decodeValue(s string, i int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if i >= len(s) {
			return 0, i, errTruncatedPolyline
		}

		b := int64(s[i]) - 63
		if b < 0 || b > 63 {
			return 0, i, fmt.Errorf("polyline: invalid character %q at %d", s[i], i)
		}
		i++

		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
		if shift > 60 {
			return 0, i, fmt.Errorf("polyline: value overflow at %d", i)
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// EncodePolyline is the inverse of DecodePolyline. Used to build provider fixtures.
func EncodePolyline(points []domain.LatLng) string {
	buf := make([]byte, 0, len(points)*8)

	var prevLat, prevLng int64
	for _, p := range points {
		lat := roundE5(p.Lat)
		lng := roundE5(p.Lng)
		buf = appendValue(buf, lat-prevLat)
		buf = appendValue(buf, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return string(buf)
}

func roundE5(v float64) int64 {
	if v < 0 {
		return int64(v*polylinePrecision - 0.5)
	}
	return int64(v*polylinePrecision + 0.5)
}

func appendValue(buf []byte, v int64) []byte {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		buf = append(buf, byte((0x20|(u&0x1f))+63))
		u >>= 5
	}
	return append(buf, byte(u+63))
}
