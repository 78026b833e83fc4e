package models

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Domain enums are persisted as the lowercase Portuguese strings the database
// already contains. Stored values are accented where the canonical form is
// accented ("médio", "vegetação"); parsing accepts accent-insensitive and
// case-insensitive variants so "medio" and "MÉDIO" both resolve.

type RiskLevel string

const (
	RiskLow    RiskLevel = "baixo"
	RiskMedium RiskLevel = "médio"
	RiskHigh   RiskLevel = "alto"
)

type SoilType string

const (
	SoilVegetation SoilType = "vegetação"
	SoilBareEarth  SoilType = "terra"
	SoilPavement   SoilType = "asfalto"
)

type StreetElevation string

const (
	ElevationLevel      StreetElevation = "nivel"
	ElevationBelowGrade StreetElevation = "abaixo"
	ElevationAboveGrade StreetElevation = "acima"
)

type ConstructionType string

const (
	ConstructionWood    ConstructionType = "madeira"
	ConstructionMasonry ConstructionType = "alvenaria"
	ConstructionMixed   ConstructionType = "mista"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a value and strips diacritics. It is the single
// canonicalization point for enum parsing and neighborhood comparison.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	switch Fold(s) {
	case "baixo":
		return RiskLow, nil
	case "medio":
		return RiskMedium, nil
	case "alto":
		return RiskHigh, nil
	}
	return "", fmt.Errorf("invalid risk level: %q", s)
}

func ParseSoilType(s string) (SoilType, error) {
	switch Fold(s) {
	case "vegetacao":
		return SoilVegetation, nil
	case "terra":
		return SoilBareEarth, nil
	case "asfalto":
		return SoilPavement, nil
	}
	return "", fmt.Errorf("invalid soil type: %q", s)
}

func ParseStreetElevation(s string) (StreetElevation, error) {
	switch Fold(s) {
	case "nivel":
		return ElevationLevel, nil
	case "abaixo":
		return ElevationBelowGrade, nil
	case "acima":
		return ElevationAboveGrade, nil
	}
	return "", fmt.Errorf("invalid street elevation: %q", s)
}

func ParseConstructionType(s string) (ConstructionType, error) {
	switch Fold(s) {
	case "madeira":
		return ConstructionWood, nil
	case "alvenaria":
		return ConstructionMasonry, nil
	case "mista":
		return ConstructionMixed, nil
	}
	return "", fmt.Errorf("invalid construction type: %q", s)
}

// ClassifyRisk maps a qualifying incident count onto a risk level. The step
// function is fixed: 5 or more incidents is high, 2 to 4 is medium, fewer is
// low.
func ClassifyRisk(totalIncidents int) RiskLevel {
	switch {
	case totalIncidents >= 5:
		return RiskHigh
	case totalIncidents >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}
