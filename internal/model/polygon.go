package model

import "github.com/twpayne/go-geom"

// MetroPolygon is a CBSA boundary. NameKey is the normalized form of Name
// used for exact-key joins against observation city keys.
type MetroPolygon struct {
	CBSACode string
	Name     string
	LSAD     string
	NameKey  string
	Geometry *geom.MultiPolygon
}

// ZipPolygon is a ZCTA boundary keyed by zero-padded ZIP code.
type ZipPolygon struct {
	ZIPCode  string
	Geometry *geom.MultiPolygon
}
