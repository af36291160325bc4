package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Which input shape a StopRecord's coordinates were taken from.
type LocationSource int

const (
	SourceNone LocationSource = iota
	SourcePair
	SourceNested
	SourceDirect
)

func (s LocationSource) String() string {
	switch s {
	case SourcePair:
		return "pair"
	case SourceNested:
		return "location"
	case SourceDirect:
		return "direct"
	default:
		return "none"
	}
}

// Caller-supplied stop record.
//
// Callers send one of three shapes: a [lat, lng] pair ("coordinates", or the record
// itself being a bare array), a nested "location" object, or direct "latitude"/"longitude"
// fields. The shape is resolved once at decode time; Source records which one won and
// is SourceNone when no shape carried usable coordinates.
type StopRecord struct {
	Type   string
	Source LocationSource
	Point  LatLng
}

type rawStopRecord struct {
	Type        json.RawMessage `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Location    json.RawMessage `json:"location"`
	Latitude    json.RawMessage `json:"latitude"`
	Longitude   json.RawMessage `json:"longitude"`
}

type rawLocation struct {
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
}

// UnmarshalJSON never fails on unusable coordinates; such records decode with
// Source == SourceNone and are dropped later by normalization.
func (r *StopRecord) UnmarshalJSON(b []byte) error {
	*r = StopRecord{}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '[':
		if p, ok := pairPoint(b); ok {
			r.Source, r.Point = SourcePair, p
		}
		return nil
	case '{':
	default:
		return nil
	}

	var raw rawStopRecord
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var typ string
	if err := json.Unmarshal(raw.Type, &typ); err == nil {
		r.Type = strings.TrimSpace(typ)
	}

	if p, ok := pairPoint(raw.Coordinates); ok {
		r.Source, r.Point = SourcePair, p
		return nil
	}

	if len(raw.Location) > 0 {
		var loc rawLocation
		if err := json.Unmarshal(raw.Location, &loc); err == nil {
			if p, ok := fieldsPoint(loc.Latitude, loc.Longitude); ok {
				r.Source, r.Point = SourceNested, p
				return nil
			}
		}
	}

	if p, ok := fieldsPoint(raw.Latitude, raw.Longitude); ok {
		r.Source, r.Point = SourceDirect, p
	}

	return nil
}

func pairPoint(b json.RawMessage) (LatLng, bool) {
	if len(b) == 0 {
		return LatLng{}, false
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil || len(pair) != 2 {
		return LatLng{}, false
	}

	return fieldsPoint(pair[0], pair[1])
}

func fieldsPoint(lat, lng json.RawMessage) (LatLng, bool) {
	la, ok := number(lat)
	if !ok {
		return LatLng{}, false
	}
	ln, ok := number(lng)
	if !ok {
		return LatLng{}, false
	}

	p := LatLng{Lat: la, Lng: ln}
	if !p.Valid() {
		return LatLng{}, false
	}
	return p, true
}

// number accepts JSON numbers only; strings, null and missing values are rejected.
func number(b json.RawMessage) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || b[0] == 'n' {
		return 0, false
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, false
	}
	return v, true
}
