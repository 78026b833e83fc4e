package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiskLevel_AcceptsAccentVariants(t *testing.T) {
	cases := []struct {
		in   string
		want RiskLevel
	}{
		{"baixo", RiskLow},
		{"BAIXO", RiskLow},
		{"médio", RiskMedium},
		{"medio", RiskMedium},
		{"MÉDIO", RiskMedium},
		{"alto", RiskHigh},
		{"Alto", RiskHigh},
	}
	for _, tc := range cases {
		got, err := ParseRiskLevel(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseRiskLevel_RejectsUnknown(t *testing.T) {
	_, err := ParseRiskLevel("urgente")
	assert.Error(t, err)

	_, err = ParseRiskLevel("")
	assert.Error(t, err)
}

func TestParseSoilType(t *testing.T) {
	got, err := ParseSoilType("VEGETACAO")
	require.NoError(t, err)
	assert.Equal(t, SoilVegetation, got)

	got, err = ParseSoilType("asfalto")
	require.NoError(t, err)
	assert.Equal(t, SoilPavement, got)

	_, err = ParseSoilType("areia")
	assert.Error(t, err)
}

func TestParseStreetElevation(t *testing.T) {
	// The canonical stored value is unaccented "nivel"; accented input still
	// parses.
	got, err := ParseStreetElevation("nível")
	require.NoError(t, err)
	assert.Equal(t, ElevationLevel, got)

	got, err = ParseStreetElevation("abaixo")
	require.NoError(t, err)
	assert.Equal(t, ElevationBelowGrade, got)

	_, err = ParseStreetElevation("subsolo")
	assert.Error(t, err)
}

func TestParseConstructionType(t *testing.T) {
	got, err := ParseConstructionType("Alvenaria")
	require.NoError(t, err)
	assert.Equal(t, ConstructionMasonry, got)

	got, err = ParseConstructionType("mista")
	require.NoError(t, err)
	assert.Equal(t, ConstructionMixed, got)

	_, err = ParseConstructionType("concreto")
	assert.Error(t, err)
}

func TestClassifyRisk_Boundaries(t *testing.T) {
	assert.Equal(t, RiskLow, ClassifyRisk(0))
	assert.Equal(t, RiskLow, ClassifyRisk(1))
	assert.Equal(t, RiskMedium, ClassifyRisk(2))
	assert.Equal(t, RiskMedium, ClassifyRisk(4))
	assert.Equal(t, RiskHigh, ClassifyRisk(5))
	assert.Equal(t, RiskHigh, ClassifyRisk(50))
}

func TestFold_StripsDiacriticsAndCase(t *testing.T) {
	assert.Equal(t, "medio", Fold("MÉDIO"))
	assert.Equal(t, "vegetacao", Fold("Vegetação"))
	assert.Equal(t, "alto", Fold("alto"))
}
